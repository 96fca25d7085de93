package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessGuard_Authorize(t *testing.T) {
	tr := newTestRequest(t)
	guard := AccessGuard{}

	tests := []struct {
		name      string
		principal Principal
		action    Action
		wantErr   error
	}{
		{"owning transporter may read", Principal{ID: "trans-1", Role: RoleTransporter}, ActionRead, nil},
		{"owning transporter may update", Principal{ID: "trans-1", Role: RoleTransporter}, ActionUpdate, nil},
		{"owning transporter may delete", Principal{ID: "trans-1", Role: RoleTransporter}, ActionDelete, nil},
		{"other transporter is rejected", Principal{ID: "trans-2", Role: RoleTransporter}, ActionUpdate, ErrNotRequestOwner},
		{"sender with matching id is rejected", Principal{ID: "trans-1", Role: RoleSupplier}, ActionRead, ErrNotRequestOwner},
		{"receiver is rejected", Principal{ID: "man-1", Role: RoleManufacturer}, ActionRead, ErrNotRequestOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Authorize(tt.principal, tr, tt.action)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestRole_IsSender(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleSupplier, true},
		{RoleManufacturer, true},
		{RoleDistributor, true},
		{RoleRetailer, false},
		{RoleTransporter, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.IsSender(), "Role(%q).IsSender()", tt.role)
	}
}

package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scm-platform/transport-service/internal/domain"
)

func TestToTransportRequestDTO(t *testing.T) {
	delivered := time.Date(2025, 7, 4, 8, 0, 0, 0, time.UTC)
	tr := &domain.TransportRequest{
		ShortID:         "t12abc345",
		RequestID:       "r12abc4567",
		SenderID:        "sup-1",
		SenderType:      domain.SenderSupplier,
		ReceiverID:      "man-1",
		ReceiverType:    "manufacturer",
		TransporterID:   "trans-1",
		TransporterName: "Fast Freight",
		Status:          domain.StatusDelivered,
		DepartureAddress: domain.Address{
			Street: "1 Dock Rd", City: "Jeddah", Country: "SA",
		},
		ActualDeliveryDate: &delivered,
		TrackingNumber:     "TRK-99",
	}

	dto := ToTransportRequestDTO(tr)
	require.NotNil(t, dto)

	assert.Equal(t, "t12abc345", dto.ShortID)
	assert.Equal(t, "delivered", dto.Status)
	assert.Equal(t, "supplier", dto.SenderType)
	assert.Equal(t, "Jeddah", dto.DepartureAddress.City)
	require.NotNil(t, dto.ActualDeliveryDate)
	assert.True(t, dto.ActualDeliveryDate.Equal(delivered))
}

func TestToTransportRequestDTO_Nil(t *testing.T) {
	assert.Nil(t, ToTransportRequestDTO(nil))
}

func TestToTransportRequestDTOs_SkipsNil(t *testing.T) {
	tr := &domain.TransportRequest{ShortID: "t12abc345", Status: domain.StatusPending}
	dtos := ToTransportRequestDTOs([]*domain.TransportRequest{tr, nil})
	assert.Len(t, dtos, 1)
}

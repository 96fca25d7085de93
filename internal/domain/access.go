package domain

// Role identifies what kind of marketplace account a principal holds
type Role string

const (
	RoleSupplier     Role = "supplier"
	RoleManufacturer Role = "manufacturer"
	RoleDistributor  Role = "distributor"
	RoleRetailer     Role = "retailer"
	RoleTransporter  Role = "transporter"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleSupplier, RoleManufacturer, RoleDistributor, RoleRetailer, RoleTransporter:
		return true
	default:
		return false
	}
}

// IsSender reports whether the role may originate supply requests
func (r Role) IsSender() bool {
	return r == RoleSupplier || r == RoleManufacturer || r == RoleDistributor
}

// Principal is the acting user, resolved upstream from the request context.
// The engine trusts this input.
type Principal struct {
	ID   string
	Role Role
}

// Action is an operation a principal attempts on a transport request
type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// AccessGuard authorizes principals against transport requests. Only the
// owning transporter may read or mutate a transport request; sender and
// receiver visibility goes through their own CRUD surfaces.
type AccessGuard struct{}

// Authorize returns ErrNotRequestOwner unless the principal is the
// transporter the request is assigned to.
func (AccessGuard) Authorize(p Principal, tr *TransportRequest, action Action) error {
	if p.Role != RoleTransporter {
		return ErrNotRequestOwner
	}
	if !tr.IsOwnedBy(p.ID) {
		return ErrNotRequestOwner
	}
	return nil
}

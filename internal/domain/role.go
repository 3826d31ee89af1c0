package domain

import "slices"

// Role is the canonical actor class carried by access tokens.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

// Roles lists the recognized roles in a stable order.
func Roles() []Role {
	return []Role{RoleCustomer, RoleVendor, RoleAdmin}
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	return slices.Contains(Roles(), r)
}

func (r Role) String() string {
	return string(r)
}

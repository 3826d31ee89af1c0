package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

const principalKey = "auth_principal"

type principalCtxKey struct{}

// CustomerIdentity is the customer view handed to route handlers.
type CustomerIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// VendorIdentity is the vendor view handed to route handlers.
type VendorIdentity struct {
	ID        string              `json:"id"`
	StoreName string              `json:"store_name"`
	Email     string              `json:"email"`
	Status    domain.VendorStatus `json:"status"`
}

// AdminIdentity is the admin view handed to route handlers.
type AdminIdentity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal represents the authenticated caller. Exactly one of Customer,
// Vendor or Admin is set, matching Role.
type Principal struct {
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
	Customer  *CustomerIdentity
	Vendor    *VendorIdentity
	Admin     *AdminIdentity
}

// SubjectID returns the id of whichever identity is attached.
func (p *Principal) SubjectID() string {
	switch {
	case p == nil:
		return ""
	case p.Customer != nil:
		return p.Customer.ID
	case p.Vendor != nil:
		return p.Vendor.ID
	case p.Admin != nil:
		return p.Admin.ID
	}
	return ""
}

// Identity returns the attached identity view.
func (p *Principal) Identity() any {
	switch p.Role {
	case domain.RoleCustomer:
		return p.Customer
	case domain.RoleVendor:
		return p.Vendor
	case domain.RoleAdmin:
		return p.Admin
	}
	return nil
}

func customerPrincipal(claims *Claims, c *domain.Customer) *Principal {
	return &Principal{
		Role:      domain.RoleCustomer,
		TokenID:   claims.TokenID(),
		ExpiresAt: claims.Expiry(),
		Customer:  &CustomerIdentity{ID: c.ID, Name: c.Name, Email: c.Email},
	}
}

func vendorPrincipal(claims *Claims, v *domain.Vendor) *Principal {
	return &Principal{
		Role:      domain.RoleVendor,
		TokenID:   claims.TokenID(),
		ExpiresAt: claims.Expiry(),
		Vendor:    &VendorIdentity{ID: v.ID, StoreName: v.StoreName, Email: v.Email, Status: v.Status},
	}
}

func adminPrincipal(claims *Claims, a *domain.Admin) *Principal {
	return &Principal{
		Role:      domain.RoleAdmin,
		TokenID:   claims.TokenID(),
		ExpiresAt: claims.Expiry(),
		Admin:     &AdminIdentity{ID: a.ID, Name: a.Name, Email: a.Email},
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}

// WithPrincipal stores the principal in a standard context for service-layer code.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// FromContext returns the principal stored by WithPrincipal.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return p, ok && p != nil
}

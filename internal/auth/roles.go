package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-gateway/internal/domain"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// CheckRoles is the predicate behind every gate. It never touches a store.
func CheckRoles(principal *Principal, allowed ...domain.Role) error {
	if principal == nil {
		return apperrors.NewUnauthenticated()
	}
	for _, role := range allowed {
		if principal.Role == role {
			return nil
		}
	}
	names := make([]string, len(allowed))
	for i, role := range allowed {
		names[i] = role.String()
	}
	return apperrors.NewForbidden(strings.Join(names, " or ") + " role required")
}

// RequireRoles gates a route on the authenticated principal's role.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := CheckRoles(principal, allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}

// IsAdmin admits admins.
func IsAdmin() fiber.Handler {
	return RequireRoles(domain.RoleAdmin)
}

// IsVendor admits vendors.
func IsVendor() fiber.Handler {
	return RequireRoles(domain.RoleVendor)
}

// IsUser admits customers.
func IsUser() fiber.Handler {
	return RequireRoles(domain.RoleCustomer)
}

// IsAdminOrVendor admits admins and vendors.
func IsAdminOrVendor() fiber.Handler {
	return RequireRoles(domain.RoleAdmin, domain.RoleVendor)
}

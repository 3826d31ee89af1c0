package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/observability"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// CustomerFinder looks up customers by id.
type CustomerFinder interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

// VendorFinder looks up vendors by id.
type VendorFinder interface {
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
}

// AdminFinder looks up admins by id.
type AdminFinder interface {
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
}

// Dependencies bundles the collaborators of the Authenticator.
type Dependencies struct {
	Customers CustomerFinder
	Vendors   VendorFinder
	Admins    AdminFinder
	// Denylist is optional; without it logout cannot revoke tokens.
	Denylist Denylist
	Logger   *zap.Logger
	Metrics  *observability.Metrics
}

// Authenticator validates bearer tokens and loads principals. Every entry point
// shares one pipeline: token stage, role check, single identity lookup, status policy.
type Authenticator struct {
	tokens    *TokenManager
	customers CustomerFinder
	vendors   VendorFinder
	admins    AdminFinder
	denylist  Denylist
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// NewAuthenticator constructs the middleware factory.
func NewAuthenticator(tokens *TokenManager, deps Dependencies) *Authenticator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{
		tokens:    tokens,
		customers: deps.Customers,
		vendors:   deps.Vendors,
		admins:    deps.Admins,
		denylist:  deps.Denylist,
		logger:    logger,
		metrics:   deps.Metrics,
	}
}

// Authenticate accepts any recognized role and dispatches on the token's role.
func (a *Authenticator) Authenticate() fiber.Handler {
	return a.handler(nil)
}

// RequireCustomer accepts customer tokens only.
func (a *Authenticator) RequireCustomer() fiber.Handler {
	return a.requireRole(domain.RoleCustomer)
}

// RequireVendor accepts approved vendor tokens only.
func (a *Authenticator) RequireVendor() fiber.Handler {
	return a.requireRole(domain.RoleVendor)
}

// RequireAdmin accepts admin tokens only.
func (a *Authenticator) RequireAdmin() fiber.Handler {
	return a.requireRole(domain.RoleAdmin)
}

func (a *Authenticator) requireRole(role domain.Role) fiber.Handler {
	return a.handler(&role)
}

func (a *Authenticator) handler(expected *domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := a.Resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization), expected)
		if err != nil {
			a.metrics.RecordAuthFailure(apperrors.ToDomainError(err).Code)
			return err
		}
		c.Locals(principalKey, principal)
		c.SetUserContext(WithPrincipal(c.UserContext(), principal))
		return c.Next()
	}
}

// Resolve runs the full pipeline for an Authorization header value. A nil
// expected role accepts whichever role the token carries.
func (a *Authenticator) Resolve(ctx context.Context, header string, expected *domain.Role) (*Principal, error) {
	claims, err := a.verify(ctx, header)
	if err != nil {
		return nil, err
	}
	if expected != nil && claims.Role != *expected {
		return nil, apperrors.NewAuthError(apperrors.CodeRoleMismatch,
			fmt.Sprintf("%s token cannot access %s routes", claims.Role, *expected))
	}

	switch claims.Role {
	case domain.RoleCustomer:
		return a.resolveCustomer(ctx, claims)
	case domain.RoleVendor:
		return a.resolveVendor(ctx, claims)
	case domain.RoleAdmin:
		return a.resolveAdmin(ctx, claims)
	default:
		return nil, invalidToken()
	}
}

func (a *Authenticator) verify(ctx context.Context, header string) (*Claims, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return nil, apperrors.NewAuthError(apperrors.CodeMissingOrMalformedToken, MsgMissingToken)
	}

	claims, err := a.tokens.ParseToken(raw)
	if err != nil {
		a.logger.Debug("token rejected", zap.Error(err))
		return nil, invalidToken()
	}

	if a.denylist != nil && claims.TokenID() != "" {
		revoked, err := a.denylist.IsRevoked(ctx, claims.TokenID())
		if err != nil {
			a.logger.Warn("token denylist unavailable", zap.Error(err))
			return nil, authenticationFailed()
		}
		if revoked {
			return nil, invalidToken()
		}
	}
	return claims, nil
}

func (a *Authenticator) resolveCustomer(ctx context.Context, claims *Claims) (*Principal, error) {
	if a.customers == nil {
		return nil, authenticationFailed()
	}
	customer, err := a.customers.GetByID(ctx, claims.SubjectID)
	if err != nil || customer == nil {
		return nil, a.lookupFailure(claims, err, MsgCustomerNotFound)
	}
	if err := CustomerPolicy(customer); err != nil {
		return nil, err
	}
	return customerPrincipal(claims, customer), nil
}

func (a *Authenticator) resolveVendor(ctx context.Context, claims *Claims) (*Principal, error) {
	if a.vendors == nil {
		return nil, authenticationFailed()
	}
	vendor, err := a.vendors.GetByID(ctx, claims.SubjectID)
	if err != nil || vendor == nil {
		return nil, a.lookupFailure(claims, err, MsgVendorNotFound)
	}
	if err := VendorPolicy(vendor); err != nil {
		return nil, err
	}
	return vendorPrincipal(claims, vendor), nil
}

func (a *Authenticator) resolveAdmin(ctx context.Context, claims *Claims) (*Principal, error) {
	if a.admins == nil {
		return nil, authenticationFailed()
	}
	admin, err := a.admins.GetByID(ctx, claims.SubjectID)
	if err != nil || admin == nil {
		return nil, a.lookupFailure(claims, err, MsgAdminNotFound)
	}
	if err := AdminPolicy(admin); err != nil {
		return nil, err
	}
	return adminPrincipal(claims, admin), nil
}

// lookupFailure separates "no such identity" from store outages. Outages,
// timeouts and cancellations collapse into the generic failure.
func (a *Authenticator) lookupFailure(claims *Claims, err error, notFound string) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewAuthError(apperrors.CodeIdentityNotFound, notFound)
	}
	a.logger.Warn("identity lookup failed",
		zap.String("role", claims.Role.String()),
		zap.String("subject_id", claims.SubjectID),
		zap.Error(err))
	return authenticationFailed()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func invalidToken() error {
	return apperrors.NewAuthError(apperrors.CodeInvalidToken, MsgInvalidToken)
}

func authenticationFailed() error {
	return apperrors.NewAuthError(apperrors.CodeInvalidToken, MsgAuthFailed)
}

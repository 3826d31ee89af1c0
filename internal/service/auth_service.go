package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-gateway/internal/auth"
	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/events"
	"github.com/spec-kit/commerce-gateway/internal/repository"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

const msgInvalidCredentials = "invalid credentials"

// Session is an issued access token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration, login and logout for all three roles.
type AuthService struct {
	customers  repository.CustomerRepository
	vendors    repository.VendorRepository
	admins     repository.AdminRepository
	denylist   auth.Denylist
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	CustomerRepo repository.CustomerRepository
	VendorRepo   repository.VendorRepository
	AdminRepo    repository.AdminRepository
	Denylist     auth.Denylist
	Dispatcher   events.Dispatcher
	Tokens       *auth.TokenManager
	BcryptCost   int
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		customers:  deps.CustomerRepo,
		vendors:    deps.VendorRepo,
		admins:     deps.AdminRepo,
		denylist:   deps.Denylist,
		dispatcher: deps.Dispatcher,
		tokenMgr:   deps.Tokens,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// RegisterCustomer creates an active customer account and signs it in.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, password string) (*domain.Customer, *Session, error) {
	email = normalizeEmail(email)
	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	customer := &domain.Customer{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, nil, err
	}

	session, err := s.issue(customer.ID, domain.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}
	return customer, session, nil
}

// LoginCustomer authenticates a customer.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*domain.Customer, *Session, error) {
	customer, err := s.customers.GetByEmail(ctx, normalizeEmail(email))
	if err := checkCredentials(err, customerHash(customer), password); err != nil {
		return nil, nil, err
	}
	if err := auth.CustomerPolicy(customer); err != nil {
		return nil, nil, err
	}
	session, err := s.issue(customer.ID, domain.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}
	return customer, session, nil
}

// RegisterVendor files a vendor application. The account stays pending until an
// admin approves it, so no token is issued.
func (s *AuthService) RegisterVendor(ctx context.Context, storeName, email, password string) (*domain.Vendor, error) {
	email = normalizeEmail(email)
	if _, err := s.vendors.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	vendor := &domain.Vendor{
		StoreName:    strings.TrimSpace(storeName),
		Email:        email,
		PasswordHash: hash,
		Status:       domain.VendorStatusPending,
	}
	if err := s.vendors.Create(ctx, vendor); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventVendorRegistered, vendor.ID, events.Actor{ID: vendor.ID},
		events.VendorRegisteredPayload{StoreName: vendor.StoreName, Email: vendor.Email}))
	return vendor, nil
}

// LoginVendor authenticates a vendor. Only approved vendors receive a token;
// every other status is reported with its own message.
func (s *AuthService) LoginVendor(ctx context.Context, email, password string) (*domain.Vendor, *Session, error) {
	vendor, err := s.vendors.GetByEmail(ctx, normalizeEmail(email))
	if err := checkCredentials(err, vendorHash(vendor), password); err != nil {
		return nil, nil, err
	}
	if err := auth.VendorPolicy(vendor); err != nil {
		return nil, nil, err
	}
	session, err := s.issue(vendor.ID, domain.RoleVendor)
	if err != nil {
		return nil, nil, err
	}
	return vendor, session, nil
}

// LoginAdmin authenticates an admin.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, *Session, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if err := checkCredentials(err, adminHash(admin), password); err != nil {
		return nil, nil, err
	}
	if err := auth.AdminPolicy(admin); err != nil {
		return nil, nil, err
	}
	session, err := s.issue(admin.ID, domain.RoleAdmin)
	if err != nil {
		return nil, nil, err
	}
	return admin, session, nil
}

// Logout revokes the token of the caller authenticated on ctx until it expires.
func (s *AuthService) Logout(ctx context.Context) error {
	principal, ok := auth.FromContext(ctx)
	if !ok {
		return apperrors.NewUnauthenticated()
	}
	if s.denylist == nil || principal.TokenID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, principal.TokenID, principal.ExpiresAt)
}

func (s *AuthService) issue(subjectID string, role domain.Role) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(subjectID, role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// checkCredentials folds a by-email lookup and a password check into one
// answer. Unknown emails and wrong passwords are indistinguishable.
func checkCredentials(lookupErr error, hash *string, password string) error {
	if lookupErr != nil {
		if !errors.Is(lookupErr, pgx.ErrNoRows) {
			return lookupErr
		}
		auth.CompareDummy(password)
		return apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	if hash == nil {
		auth.CompareDummy(password)
		return apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	if err := auth.ComparePassword(*hash, password); err != nil {
		return apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	return nil
}

func customerHash(c *domain.Customer) *string {
	if c == nil {
		return nil
	}
	return &c.PasswordHash
}

func vendorHash(v *domain.Vendor) *string {
	if v == nil {
		return nil
	}
	return &v.PasswordHash
}

func adminHash(a *domain.Admin) *string {
	if a == nil {
		return nil
	}
	return &a.PasswordHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

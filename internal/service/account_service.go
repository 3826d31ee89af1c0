package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-gateway/internal/auth"
	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/events"
	"github.com/spec-kit/commerce-gateway/internal/repository"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// AccountService implements the admin workflows that own account state:
// vendor approval and customer/admin activation.
type AccountService struct {
	customers  repository.CustomerRepository
	vendors    repository.VendorRepository
	admins     repository.AdminRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AccountDependencies bundles AccountService collaborators.
type AccountDependencies struct {
	CustomerRepo repository.CustomerRepository
	VendorRepo   repository.VendorRepository
	AdminRepo    repository.AdminRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		customers:  deps.CustomerRepo,
		vendors:    deps.VendorRepo,
		admins:     deps.AdminRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ActorFromContext describes the authenticated caller stored in ctx by the
// authenticator, for event metadata.
func ActorFromContext(ctx context.Context) events.Actor {
	p, ok := auth.FromContext(ctx)
	if !ok {
		return events.Actor{}
	}
	return events.Actor{Role: p.Role, ID: p.SubjectID()}
}

// ListVendors returns vendors, optionally filtered by status.
func (s *AccountService) ListVendors(ctx context.Context, status *domain.VendorStatus, limit, offset int) ([]domain.Vendor, error) {
	if status != nil && !status.Valid() {
		return nil, apperrors.NewValidationError("unknown vendor status", map[string]any{"status": *status})
	}
	return s.vendors.List(ctx, repository.VendorFilter{Status: status, Limit: limit, Offset: offset})
}

// GetVendor returns a vendor by id.
func (s *AccountService) GetVendor(ctx context.Context, id string) (*domain.Vendor, error) {
	vendor, err := s.vendors.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("vendor", id, err)
	}
	return vendor, nil
}

// TransitionVendor moves a vendor through its approval lifecycle.
func (s *AccountService) TransitionVendor(ctx context.Context, actor events.Actor, vendorID string, target domain.VendorStatus, reason string) (*domain.Vendor, error) {
	vendor, err := s.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if !vendor.Status.CanTransitionTo(target) {
		return nil, apperrors.NewInvalidTransition(string(vendor.Status), string(target))
	}

	var reasonPtr *string
	if reason = strings.TrimSpace(reason); reason != "" {
		reasonPtr = &reason
	}
	if err := s.vendors.UpdateStatus(ctx, vendor.ID, target, reasonPtr); err != nil {
		return nil, notFound("vendor", vendorID, err)
	}

	previous := vendor.Status
	vendor.Status = target
	vendor.StatusReason = reasonPtr

	s.logger.Info("vendor status changed",
		zap.String("vendor_id", vendor.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
		zap.String("actor_id", actor.ID))
	s.publish(ctx, events.NewEvent(events.EventVendorStatusChanged, vendor.ID, actor,
		events.VendorStatusChangedPayload{OldStatus: previous, NewStatus: target, Reason: reason}))
	return vendor, nil
}

// SetCustomerActive enables or disables a customer account.
func (s *AccountService) SetCustomerActive(ctx context.Context, actor events.Actor, customerID string, active bool) error {
	if err := s.customers.SetActive(ctx, customerID, active); err != nil {
		return notFound("customer", customerID, err)
	}
	s.publish(ctx, events.NewEvent(events.EventCustomerActivationChanged, customerID, actor,
		events.ActivationChangedPayload{Active: active}))
	return nil
}

// SetAdminActive enables or disables an admin account. Admins cannot deactivate themselves.
func (s *AccountService) SetAdminActive(ctx context.Context, actor events.Actor, adminID string, active bool) error {
	if !active && actor.Role == domain.RoleAdmin && actor.ID == adminID {
		return apperrors.NewConflict("admins cannot deactivate their own account", nil)
	}
	if err := s.admins.SetActive(ctx, adminID, active); err != nil {
		return notFound("admin", adminID, err)
	}
	s.publish(ctx, events.NewEvent(events.EventAdminActivationChanged, adminID, actor,
		events.ActivationChangedPayload{Active: active}))
	return nil
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func notFound(resource, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

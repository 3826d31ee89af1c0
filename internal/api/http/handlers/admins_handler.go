package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-gateway/internal/api/dto"
	"github.com/spec-kit/commerce-gateway/internal/auth"
	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/service"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// vendorActions maps the admin action segment to the target status.
var vendorActions = map[string]domain.VendorStatus{
	"approve":   domain.VendorStatusApproved,
	"reject":    domain.VendorStatusRejected,
	"suspend":   domain.VendorStatusSuspended,
	"reinstate": domain.VendorStatusApproved,
}

// AdminsHandler exposes admin login and account management endpoints.
type AdminsHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
}

// NewAdminsHandler constructs handler.
func NewAdminsHandler(authService *service.AuthService, accounts *service.AccountService) *AdminsHandler {
	return &AdminsHandler{auth: authService, accounts: accounts}
}

// Login handles POST /api/auth/admins/login.
func (h *AdminsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	admin, session, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": auth.AdminIdentity{ID: admin.ID, Name: admin.Name, Email: admin.Email},
			"auth":  dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Me handles GET /api/admin/me.
func (h *AdminsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthenticated()
	}
	return c.JSON(fiber.Map{"data": principal.Admin})
}

// ListVendors handles GET /api/admin/vendors.
func (h *AdminsHandler) ListVendors(c *fiber.Ctx) error {
	var status *domain.VendorStatus
	if raw := c.Query("status"); raw != "" {
		s := domain.VendorStatus(raw)
		status = &s
	}
	limit := c.QueryInt("limit", defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	vendors, err := h.accounts.ListVendors(c.UserContext(), status, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.VendorResponse, 0, len(vendors))
	for i := range vendors {
		items = append(items, dto.NewVendorResponse(&vendors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// TransitionVendor handles POST /api/admin/vendors/:id/:action.
func (h *AdminsHandler) TransitionVendor(c *fiber.Ctx) error {
	target, ok := vendorActions[c.Params("action")]
	if !ok {
		return apperrors.NewNotFound("action", map[string]any{"action": c.Params("action")})
	}
	var req dto.VendorTransitionRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}

	vendor, err := h.accounts.TransitionVendor(c.UserContext(), service.ActorFromContext(c.UserContext()), c.Params("id"), target, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVendorResponse(vendor)})
}

// SetCustomerStatus handles PATCH /api/admin/customers/:id/status.
func (h *AdminsHandler) SetCustomerStatus(c *fiber.Ctx) error {
	var req dto.ActivationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.accounts.SetCustomerActive(c.UserContext(), service.ActorFromContext(c.UserContext()), c.Params("id"), *req.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "active": *req.Active}})
}

// SetAdminStatus handles PATCH /api/admin/admins/:id/status.
func (h *AdminsHandler) SetAdminStatus(c *fiber.Ctx) error {
	var req dto.ActivationRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.accounts.SetAdminActive(c.UserContext(), service.ActorFromContext(c.UserContext()), c.Params("id"), *req.Active); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": c.Params("id"), "active": *req.Active}})
}

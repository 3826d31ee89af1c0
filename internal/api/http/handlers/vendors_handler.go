package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-gateway/internal/api/dto"
	"github.com/spec-kit/commerce-gateway/internal/auth"
	"github.com/spec-kit/commerce-gateway/internal/domain"
	"github.com/spec-kit/commerce-gateway/internal/service"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// VendorsHandler exposes vendor onboarding and profile endpoints.
type VendorsHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
}

// NewVendorsHandler constructs handler.
func NewVendorsHandler(authService *service.AuthService, accounts *service.AccountService) *VendorsHandler {
	return &VendorsHandler{auth: authService, accounts: accounts}
}

// Register handles POST /api/auth/vendors/register. The application is
// created pending and no token is issued until an admin approves it.
func (h *VendorsHandler) Register(c *fiber.Ctx) error {
	var req dto.VendorRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	vendor, err := h.auth.RegisterVendor(c.UserContext(), req.StoreName, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"vendor": dto.NewVendorResponse(vendor)},
	})
}

// Login handles POST /api/auth/vendors/login.
func (h *VendorsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	vendor, session, err := h.auth.LoginVendor(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"vendor": dto.NewVendorResponse(vendor),
			"auth":   dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Me handles GET /api/vendors/me.
func (h *VendorsHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Vendor == nil {
		return apperrors.NewUnauthenticated()
	}
	return c.JSON(fiber.Map{"data": principal.Vendor})
}

// Get handles GET /api/vendors/:id. Admins may read any vendor, vendors only themselves.
func (h *VendorsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated()
	}
	id := c.Params("id")
	if principal.Role == domain.RoleVendor && principal.SubjectID() != id {
		return apperrors.NewForbidden("vendors may only view their own profile")
	}

	vendor, err := h.accounts.GetVendor(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVendorResponse(vendor)})
}

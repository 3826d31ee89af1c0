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

// CustomersHandler exposes auth endpoints for customers.
type CustomersHandler struct {
	auth *service.AuthService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(authService *service.AuthService) *CustomersHandler {
	return &CustomersHandler{auth: authService}
}

// Register handles POST /api/auth/customers/register.
func (h *CustomersHandler) Register(c *fiber.Ctx) error {
	var req dto.CustomerRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customer, session, err := h.auth.RegisterCustomer(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"customer": customerView(customer),
			"auth":     dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Login handles POST /api/auth/customers/login.
func (h *CustomersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customer, session, err := h.auth.LoginCustomer(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"customer": customerView(customer),
			"auth":     dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
		},
	})
}

// Me handles GET /api/customers/me.
func (h *CustomersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Customer == nil {
		return apperrors.NewUnauthenticated()
	}
	return c.JSON(fiber.Map{"data": principal.Customer})
}

func customerView(customer *domain.Customer) auth.CustomerIdentity {
	return auth.CustomerIdentity{ID: customer.ID, Name: customer.Name, Email: customer.Email}
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-gateway/internal/auth"
	"github.com/spec-kit/commerce-gateway/internal/service"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// SessionHandler serves endpoints shared by every role.
type SessionHandler struct {
	auth *service.AuthService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{auth: authService}
}

// Me handles GET /api/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated()
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"role":       principal.Role,
			"identity":   principal.Identity(),
			"expires_at": principal.ExpiresAt,
		},
	})
}

// Logout handles POST /api/auth/logout by revoking the presented token.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

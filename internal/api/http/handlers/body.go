package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-gateway/internal/api/dto"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

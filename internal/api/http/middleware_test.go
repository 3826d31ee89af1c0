package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

func TestErrorForFiberErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fiber.ErrBadRequest, http.StatusBadRequest, apperrors.CodeBadRequest},
		{fiber.ErrUnauthorized, http.StatusUnauthorized, apperrors.CodeUnauthorized},
		{fiber.ErrForbidden, http.StatusForbidden, apperrors.CodeForbidden},
		{fiber.ErrNotFound, http.StatusNotFound, apperrors.CodeNotFound},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, apperrors.CodeMethodNotAllowed},
		{fiber.ErrRequestEntityTooLarge, http.StatusRequestEntityTooLarge, apperrors.CodePayloadTooLarge},
		{fiber.ErrTooManyRequests, http.StatusTooManyRequests, apperrors.CodeRateLimited},
		{fiber.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType, apperrors.CodeBadRequest},
		{fiber.ErrServiceUnavailable, http.StatusInternalServerError, apperrors.CodeInternal},
		{errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}
	for _, tc := range cases {
		de := errorFor(tc.err)
		assert.Equal(t, tc.status, de.HTTPStatus, tc.err.Error())
		assert.Equal(t, tc.code, de.Code, tc.err.Error())
	}
}

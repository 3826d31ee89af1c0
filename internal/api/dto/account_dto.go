package dto

import (
	"time"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

// VendorTransitionRequest carries an optional reason for an approval decision.
type VendorTransitionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ActivationRequest toggles an account's active flag.
type ActivationRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// VendorResponse is the public vendor representation.
type VendorResponse struct {
	ID           string              `json:"id"`
	StoreName    string              `json:"store_name"`
	Email        string              `json:"email"`
	Status       domain.VendorStatus `json:"status"`
	StatusReason *string             `json:"status_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// NewVendorResponse strips credentials from a vendor record.
func NewVendorResponse(v *domain.Vendor) VendorResponse {
	return VendorResponse{
		ID:           v.ID,
		StoreName:    v.StoreName,
		Email:        v.Email,
		Status:       v.Status,
		StatusReason: v.StatusReason,
		CreatedAt:    v.CreatedAt,
	}
}

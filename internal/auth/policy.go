package auth

import (
	"github.com/spec-kit/commerce-gateway/internal/domain"
	apperrors "github.com/spec-kit/commerce-gateway/pkg/util/errorutil"
)

// Rejection messages returned to clients.
const (
	MsgMissingToken        = "missing or malformed bearer token"
	MsgInvalidToken        = "invalid or expired token"
	MsgAuthFailed          = "authentication failed"
	MsgCustomerNotFound    = "customer not found"
	MsgAdminNotFound       = "admin not found"
	MsgVendorNotFound      = "vendor not found or not approved"
	MsgAccountInactive     = "account is inactive"
	MsgPendingApproval     = "vendor account is awaiting admin approval"
	MsgApplicationRejected = "vendor application rejected"
	MsgAccountSuspended    = "vendor account suspended"
	MsgNotApproved         = "vendor account is not approved"
)

// CustomerPolicy permits active customers.
func CustomerPolicy(c *domain.Customer) error {
	if !c.Active {
		return apperrors.NewAuthError(apperrors.CodeAccountInactive, MsgAccountInactive)
	}
	return nil
}

// AdminPolicy permits active admins.
func AdminPolicy(a *domain.Admin) error {
	if !a.Active {
		return apperrors.NewAuthError(apperrors.CodeAccountInactive, MsgAccountInactive)
	}
	return nil
}

// VendorPolicy permits approved vendors and explains every other status.
func VendorPolicy(v *domain.Vendor) error {
	switch v.Status {
	case domain.VendorStatusApproved:
		return nil
	case domain.VendorStatusPending:
		return apperrors.NewAuthError(apperrors.CodePendingApproval, MsgPendingApproval)
	case domain.VendorStatusRejected:
		return apperrors.NewAuthError(apperrors.CodeApplicationRejected, MsgApplicationRejected)
	case domain.VendorStatusSuspended:
		return apperrors.NewAuthError(apperrors.CodeAccountSuspended, MsgAccountSuspended)
	default:
		return apperrors.NewAuthError(apperrors.CodeNotApproved, MsgNotApproved)
	}
}

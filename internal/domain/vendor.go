package domain

import "time"

// VendorStatus tracks the approval lifecycle of a vendor account.
type VendorStatus string

const (
	VendorStatusPending   VendorStatus = "pending"
	VendorStatusApproved  VendorStatus = "approved"
	VendorStatusRejected  VendorStatus = "rejected"
	VendorStatusSuspended VendorStatus = "suspended"
)

var vendorTransitions = map[VendorStatus][]VendorStatus{
	VendorStatusPending:   {VendorStatusApproved, VendorStatusRejected},
	VendorStatusApproved:  {VendorStatusSuspended},
	VendorStatusSuspended: {VendorStatusApproved},
	VendorStatusRejected:  {VendorStatusPending},
}

// Valid reports whether s is a known status.
func (s VendorStatus) Valid() bool {
	_, ok := vendorTransitions[s]
	return ok
}

// CanTransitionTo reports whether an admin workflow may move a vendor from s to target.
func (s VendorStatus) CanTransitionTo(target VendorStatus) bool {
	for _, next := range vendorTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Vendor is a seller account. Only approved vendors may authenticate.
type Vendor struct {
	ID           string
	StoreName    string
	Email        string
	PasswordHash string
	Status       VendorStatus
	StatusReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

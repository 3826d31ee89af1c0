package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVendorRegistered          EventType = "vendor_registered"
	EventVendorStatusChanged       EventType = "vendor_status_changed"
	EventCustomerActivationChanged EventType = "customer_activation_changed"
	EventAdminActivationChanged    EventType = "admin_activation_changed"
)

// Actor encapsulates who triggered an event. Role is empty for self-service actions.
type Actor struct {
	Role domain.Role `json:"role,omitempty"`
	ID   string      `json:"id,omitempty"`
}

// Event represents an account lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, subjectID string, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// VendorRegisteredPayload payload.
type VendorRegisteredPayload struct {
	StoreName string `json:"store_name"`
	Email     string `json:"email"`
}

// VendorStatusChangedPayload payload.
type VendorStatusChangedPayload struct {
	OldStatus domain.VendorStatus `json:"old_status"`
	NewStatus domain.VendorStatus `json:"new_status"`
	Reason    string              `json:"reason,omitempty"`
}

// ActivationChangedPayload payload.
type ActivationChangedPayload struct {
	Active bool `json:"active"`
}

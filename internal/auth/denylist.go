package auth

import (
	"context"
	"time"
)

// Denylist records token ids revoked before their natural expiry.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

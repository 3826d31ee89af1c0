package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

// ErrUnknownRole is returned when a role string cannot be normalized.
var ErrUnknownRole = errors.New("unknown role")

// RoleDecoder normalizes role strings found in tokens into canonical roles.
// Canonical names match case-insensitively; legacy names are resolved through
// an explicit alias table so gate logic only ever compares domain.Role values.
type RoleDecoder struct {
	aliases map[string]domain.Role
}

// NewRoleDecoder builds a decoder from alias -> canonical role name pairs.
func NewRoleDecoder(aliases map[string]string) (*RoleDecoder, error) {
	decoded := make(map[string]domain.Role, len(aliases))
	for alias, target := range aliases {
		role := domain.Role(strings.ToLower(strings.TrimSpace(target)))
		if !role.Valid() {
			return nil, fmt.Errorf("alias %q targets %w %q", alias, ErrUnknownRole, target)
		}
		decoded[strings.ToLower(strings.TrimSpace(alias))] = role
	}
	return &RoleDecoder{aliases: decoded}, nil
}

// Decode maps raw to a canonical role.
func (d *RoleDecoder) Decode(raw string) (domain.Role, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", fmt.Errorf("%w: empty", ErrUnknownRole)
	}
	if role := domain.Role(key); role.Valid() {
		return role, nil
	}
	if d != nil {
		if role, ok := d.aliases[key]; ok {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

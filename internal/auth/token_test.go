package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-gateway/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens(t *testing.T, opts ...TokenOption) *TokenManager {
	t.Helper()
	decoder, err := NewRoleDecoder(map[string]string{"user": "customer"})
	require.NoError(t, err)
	return NewTokenManager(testSecret, 60, decoder, opts...)
}

// signRaw signs arbitrary claims with the test secret, bypassing GenerateToken.
func signRaw(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestGenerateAndParseRoundTrip(t *testing.T) {
	tm := newTestTokens(t)

	token, exp, err := tm.GenerateToken("v1", domain.RoleVendor)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "v1", claims.SubjectID)
	assert.Equal(t, domain.RoleVendor, claims.Role)
	assert.NotEmpty(t, claims.TokenID())
	assert.WithinDuration(t, exp, claims.Expiry(), time.Second)
}

func TestGenerateRejectsUnknownRole(t *testing.T) {
	_, _, err := newTestTokens(t).GenerateToken("x", domain.Role("root"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestParseRejectsExpired(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := newTestTokens(t, WithClock(func() time.Time { return issuedAt }))
	token, _, err := issuer.GenerateToken("c1", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = newTestTokens(t).ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsTamperedSignature(t *testing.T) {
	tm := newTestTokens(t)
	token, _, err := tm.GenerateToken("a1", domain.RoleAdmin)
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	for i := sigStart; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]
		claims, err := tm.ParseToken(tampered)
		require.Error(t, err, "byte %d", i)
		assert.Nil(t, claims)
	}
}

func TestParseRejectsWrongSecretAndAlgorithm(t *testing.T) {
	tm := newTestTokens(t)

	other := signRaw(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), jwt.MapClaims{"id": "c1", "role": "customer"})
	_, err := tm.ParseToken(other)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	hs512 := signRaw(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"id": "c1", "role": "customer"})
	_, err = tm.ParseToken(hs512)
	assert.Error(t, err)

	none := signRaw(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"id": "c1", "role": "customer"})
	_, err = tm.ParseToken(none)
	assert.Error(t, err)

	_, err = tm.ParseToken("not.a.token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestParseRequiresExpiry(t *testing.T) {
	tm := newTestTokens(t)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "c1", "role": "customer"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenRequiredClaimMissing)
}

func TestParseRoleHandling(t *testing.T) {
	tm := newTestTokens(t)

	legacy := signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "c1", "role": "user"})
	claims, err := tm.ParseToken(legacy)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, claims.Role)
	assert.Equal(t, "user", claims.RawRole)

	missing := signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "c1"})
	_, err = tm.ParseToken(missing)
	assert.ErrorIs(t, err, ErrUnknownRole)

	bogus := signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"id": "c1", "role": "superuser"})
	_, err = tm.ParseToken(bogus)
	assert.ErrorIs(t, err, ErrUnknownRole)

	noSubject := signRaw(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "admin"})
	_, err = tm.ParseToken(noSubject)
	assert.ErrorIs(t, err, ErrMissingSubject)
}

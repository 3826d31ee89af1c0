package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when an account does not exist so unknown
// emails still pay for a bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("commerce-gateway-dummy"), bcrypt.MinCost)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// CompareDummy burns one bcrypt comparison for a missing account.
func CompareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}

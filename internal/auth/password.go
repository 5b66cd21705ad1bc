package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash
// in constant time.
func VerifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// HasUsablePassword reports whether the stored hash can ever match a
// password. Federated accounts store an empty hash and must never be
// accepted by the credential path.
func HasUsablePassword(hash string) bool {
	return strings.HasPrefix(hash, "$2")
}

package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor
const cost = 12

// ErrTooLong is returned for passwords beyond bcrypt's 72-byte input limit.
var ErrTooLong = errors.New("password is too long")

// Hash derives a bcrypt hash from a plaintext password.
func Hash(password string) (string, error) {
	if len(password) > 72 {
		return "", ErrTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// Verify reports whether the plaintext password matches the stored hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

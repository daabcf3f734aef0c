package utils

import "golang.org/x/crypto/bcrypt"

// passwordHashCost is the bcrypt work factor applied to stored credentials.
const passwordHashCost = bcrypt.DefaultCost

// HashPassword derives the bcrypt hash stored for a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(hash), err
}

// CheckPasswordHash reports whether the plaintext password matches the stored
// bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

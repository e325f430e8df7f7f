package utils

import (
	"crypto/rand"
	"math/big"
)

const secretCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SecretLength is the fixed length of api secrets and billet bar codes.
const SecretLength = 16

// GenerateSecret returns a 16-character alphanumeric credential from a
// cryptographically secure source.
func GenerateSecret() string {
	result := make([]byte, SecretLength)
	for i := range result {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(secretCharset))))
		result[i] = secretCharset[num.Int64()]
	}
	return string(result)
}

// GenerateBarCode returns an opaque billet bar code. It shares the api
// secret format.
func GenerateBarCode() string {
	return GenerateSecret()
}

// ValidSecret reports whether s has the shape of a generated secret.
func ValidSecret(s string) bool {
	if len(s) != SecretLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

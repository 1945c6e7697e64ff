package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// passwordAlphabet is the character set used for generated passwords
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"

// GeneratedPasswordLength is the length of server-generated recovery passwords
const GeneratedPasswordLength = 12

// GenerateValidationCode generates a random 6-digit numeric code in [100000, 999999]
func GenerateValidationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// GeneratePassword generates a random password from a mixed
// alphanumeric and symbol alphabet
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = GeneratedPasswordLength
	}

	password := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		password[i] = passwordAlphabet[n.Int64()]
	}
	return string(password), nil
}

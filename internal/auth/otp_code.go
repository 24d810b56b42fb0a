package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// otpCodeDigits is the length of a generated one-time code.
const otpCodeDigits = 6

// GenerateOtpCode returns a random zero-padded 6-digit code.
func GenerateOtpCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", otpCodeDigits, n), nil
}

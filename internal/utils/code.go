package utils

import (
	"crypto/rand"
	"math/big"
)

const otpAlphabet = "0123456789"

// GenerateOTP returns an n-digit numeric login code (students type it from
// an email, so digits only).
func GenerateOTP(n int) (string, error) {
	if n <= 0 {
		n = 6
	}
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		idxBig, err := rand.Int(rand.Reader, big.NewInt(int64(len(otpAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = otpAlphabet[idxBig.Int64()]
	}
	return string(b), nil
}

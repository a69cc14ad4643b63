package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const otpModulus = 1000000

// GenerateOTP returns a uniformly random 6-digit code, zero-padded.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpModulus))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// GenerateToken returns 32 bytes of cryptographic randomness, hex
// encoded. Used for reset handles and verified tokens.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// RandomSource is the production token source injected into the reset
// service; tests substitute fixed values.
type RandomSource struct{}

func (RandomSource) OTP() (string, error)   { return GenerateOTP() }
func (RandomSource) Token() (string, error) { return GenerateToken() }

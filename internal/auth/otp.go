package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// OTPDuration is how long a password-reset code stays usable after it is
// emailed out.
const OTPDuration = 10 * time.Minute

// GenerateOTP returns a 6-digit numeric one-time code in [100000, 999999].
//
// The range deliberately excludes leading zeros so the code survives any
// client that treats it as a number. crypto/rand rather than math/rand:
// a guessable reset code is an account takeover.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("auth: generating OTP: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// RandomPassword returns 32 hex characters of randomness.
//
// Used as the placeholder password for accounts auto-provisioned through
// Google sign-in: the value is hashed and stored but never shown to anyone,
// it only exists so the password column is non-empty and unguessable.
func RandomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating random password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

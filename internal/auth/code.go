package auth

import (
	"math/rand/v2"
	"time"
)

// VerificationWindow is how long a stored verification code stays valid,
// measured from the user's last update.
const VerificationWindow = 10 * time.Minute

// GenerateVerificationCode returns a fresh 6-digit code in [100000, 999999].
func GenerateVerificationCode() int {
	return 100000 + rand.IntN(900000)
}

// CodeExpired reports whether the verification window has elapsed since
// updatedAt.
func CodeExpired(updatedAt, now time.Time) bool {
	return now.Sub(updatedAt) > VerificationWindow
}

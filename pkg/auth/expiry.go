package auth

import "time"

// IsExpired reports whether more than window has passed since issuedAt.
// Exactly window elapsed is still valid.
func IsExpired(issuedAt time.Time, window time.Duration, now time.Time) bool {
	return now.Sub(issuedAt) > window
}

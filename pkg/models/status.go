package models

import "time"

// Status labels for certificate expiry, used by the text renderer.
const (
	StatusActive       = "Active"
	StatusExpired      = "Expired"
	StatusExpiringSoon = "Expiring Soon"
)

// ExpirationThresholdDays is the number of remaining days below which a
// certificate is reported as Expiring Soon.
const ExpirationThresholdDays = 30

// CalculateDaysUntilExpiration returns the whole days between now and expiresAt.
// Partial days are truncated toward zero, so the result is negative only once a
// full day has passed since expiry.
func CalculateDaysUntilExpiration(expiresAt, now time.Time) int64 {
	if expiresAt.IsZero() {
		return 0
	}
	return int64(expiresAt.Sub(now) / (24 * time.Hour))
}

// ExpirationStatus maps remaining days to a display label.
func ExpirationStatus(daysRemaining int64) string {
	switch {
	case daysRemaining < 0:
		return StatusExpired
	case daysRemaining < ExpirationThresholdDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

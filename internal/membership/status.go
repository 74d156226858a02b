package membership

import "time"

// Stored status values. Anything else found in the database is a legacy
// value and is treated as expired.
const (
	StoredActive  = "active"
	StoredExpired = "expired"
)

// Status is the derived display status. It is never persisted.
type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring soon"
	StatusExpired      Status = "expired"
)

// ExpiringSoonDays is the inclusive threshold below which an active
// membership is reported as expiring soon.
const ExpiringSoonDays = 14

// EffectiveStatus derives the display status from the stored status and
// expiry date. A manual expired override always wins. An active member
// with no expiry date is reported active. Only a negative day count is
// expired; the expiry day itself still counts as expiring soon.
func EffectiveStatus(stored string, expiry *time.Time, now time.Time) Status {
	if stored != StoredActive {
		return StatusExpired
	}

	if expiry == nil {
		return StatusActive
	}

	days := daysUntil(now, *expiry)
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// EffectiveStatusFromRaw is EffectiveStatus over a raw expiry string.
// An unparseable expiry falls back to no expiry at all, so bad data
// reads as active rather than locking the member out.
func EffectiveStatusFromRaw(stored, rawExpiry string, now time.Time) Status {
	return EffectiveStatus(stored, ParseExpiry(rawExpiry), now)
}

// ParseExpiry parses an expiry timestamp in any of the formats seen in
// imported data. Returns nil if the value is empty or unparseable.
func ParseExpiry(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// BroadcastEligible reports whether a member should receive bulk email:
// effective status active or expiring soon, and a non-empty address.
func BroadcastEligible(stored string, expiry *time.Time, email string, now time.Time) bool {
	if email == "" {
		return false
	}
	status := EffectiveStatus(stored, expiry, now)
	return status == StatusActive || status == StatusExpiringSoon
}

// RenewalAllowed reports whether a renewal may be taken: the membership
// is expired or expiring soon, or today is the expiry day itself (the
// stored status may not have flipped yet).
func RenewalAllowed(stored string, expiry *time.Time, now time.Time) bool {
	status := EffectiveStatus(stored, expiry, now)
	if status == StatusExpired || status == StatusExpiringSoon {
		return true
	}
	return expiry != nil && sameDay(*expiry, now)
}

// daysUntil returns the whole calendar-day difference between now and
// expiry, ignoring the time of day on both ends.
func daysUntil(now, expiry time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expiryDay := time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiryDay.Sub(nowDay).Hours() / 24)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

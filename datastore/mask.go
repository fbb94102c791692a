package datastore

import (
	"strings"
	"time"
)

// maskSensitive keeps at most the last 4 characters of an identifier in
// plaintext.
func maskSensitive(value string) string {
	if len(value) <= 4 {
		return "***"
	}
	return "***" + value[len(value)-4:]
}

// maskEmail keeps the first 2 characters of the local part when it is longer
// than 2 characters, otherwise hides it entirely.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 {
		return "***"
	}
	if at > 2 {
		return email[:2] + "***" + email[at:]
	}
	return "***" + email[at:]
}

func ageAt(birthDate, now time.Time) int {
	if birthDate.IsZero() {
		return 0
	}
	years := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

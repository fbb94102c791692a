package datastore

import (
	"strings"
	"testing"
	"time"
)

func TestMaskSensitive(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"MRN-2024-001234", "***1234"},
		{"12345", "***2345"},
		{"1234", "***"},
		{"12", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		if got := maskSensitive(tt.value); got != tt.want {
			t.Errorf("maskSensitive(%q)=%q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestMaskSensitiveNeverLeaksMoreThanLastFour(t *testing.T) {
	value := "MRN-2024-001234"
	masked := maskSensitive(value)
	if strings.Contains(masked, value[:len(value)-4]) {
		t.Fatalf("masked value %q leaks the identifier prefix", masked)
	}
	if !strings.HasPrefix(masked, "***") {
		t.Fatalf("masked value %q missing mask prefix", masked)
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"abc@example.com", "ab***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"a@example.com", "***@example.com"},
		{"not-an-email", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		if got := maskEmail(tt.email); got != tt.want {
			t.Errorf("maskEmail(%q)=%q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday passed this year", time.Date(1990, time.March, 1, 0, 0, 0, 0, time.UTC), 34},
		{"birthday not yet reached", time.Date(1990, time.December, 1, 0, 0, 0, 0, time.UTC), 33},
		{"birthday today", time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC), 34},
		{"birthday tomorrow", time.Date(1990, time.June, 16, 0, 0, 0, 0, time.UTC), 33},
		{"zero birth date", time.Time{}, 0},
		{"future birth date", time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ageAt(tt.birth, now); got != tt.want {
				t.Errorf("ageAt=%d, want %d", got, tt.want)
			}
		})
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	issued := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	window := 10 * time.Minute

	tests := []struct {
		name     string
		now      time.Time
		expected bool
	}{
		{"well inside window", issued.Add(9 * time.Minute), false},
		{"exact boundary is not expired", issued.Add(10 * time.Minute), false},
		{"one millisecond past boundary", issued.Add(10*time.Minute + time.Millisecond), true},
		{"past window", issued.Add(11 * time.Minute), true},
		{"clock before issue", issued.Add(-time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsExpired(issued, window, tt.now))
		})
	}
}

func TestIsExpired_DayWindow(t *testing.T) {
	issued := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	window := 3 * 24 * time.Hour

	assert.False(t, IsExpired(issued, window, issued.Add(72*time.Hour)))
	assert.True(t, IsExpired(issued, window, issued.Add(72*time.Hour+time.Second)))
}

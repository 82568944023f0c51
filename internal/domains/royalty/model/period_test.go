package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentPeriod(t *testing.T) {
	now := time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08", CurrentPeriod(now))
}

func TestPreviousPeriod(t *testing.T) {
	assert.Equal(t, "2026-07", PreviousPeriod(time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-12", PreviousPeriod(time.Date(2026, time.January, 31, 23, 59, 0, 0, time.UTC)))
	// March 31: previous month is February regardless of day overflow.
	assert.Equal(t, "2026-02", PreviousPeriod(time.Date(2026, time.March, 31, 12, 0, 0, 0, time.UTC)))
}

func TestParsePeriod(t *testing.T) {
	valid := []string{"2026-01", "2026-12", "1999-06"}
	for _, p := range valid {
		got, err := ParsePeriod(p)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	invalid := []string{"", "2026", "2026-13", "2026-00", "2026-1", "26-01", "2026/01", "2026-01-15"}
	for _, p := range invalid {
		_, err := ParsePeriod(p)
		assert.Error(t, err, "period %q should be rejected", p)
	}
}

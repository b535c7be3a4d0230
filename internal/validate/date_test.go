package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = prev })
}

func TestCheckDateValidity(t *testing.T) {
	withNow(t, time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	t.Run("fresh certificate", func(t *testing.T) {
		res := CheckDateValidity("15/08/2026", "gst")
		require.True(t, res.Valid)
		assert.Contains(t, res.Message, "Valid for")
		assert.Equal(t, "15-08-2027", res.ExpiryDate)
		assert.Greater(t, res.DaysRemaining, 300)
	})

	t.Run("expiry day already underway counts as expired", func(t *testing.T) {
		// expiry lands on 01-09-2026 at midnight; now is noon the same day
		res := CheckDateValidity("01/09/2025", "gst")
		require.False(t, res.Valid)
		assert.Equal(t, "Expired 1 days ago", res.Error)
		assert.Equal(t, "01-09-2026", res.ExpiryDate)
	})

	t.Run("expired certificate", func(t *testing.T) {
		res := CheckDateValidity("01/01/2024", "gst")
		require.False(t, res.Valid)
		assert.Contains(t, res.Error, "Expired")
		assert.Contains(t, res.Error, "days ago")
	})

	t.Run("udyam window is five years", func(t *testing.T) {
		res := CheckDateValidity("01/01/2024", "udyam")
		require.True(t, res.Valid)
		assert.Equal(t, "30-12-2028", res.ExpiryDate)
	})

	t.Run("textual month", func(t *testing.T) {
		res := CheckDateValidity("15 Aug 2026", "gst")
		assert.True(t, res.Valid)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No date", CheckDateValidity("", "gst").Error)
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Equal(t, "Cannot parse date", CheckDateValidity("not a date", "gst").Error)
	})
}

func TestDateLayoutsRoundTrip(t *testing.T) {
	// formatting then reparsing yields the same calendar date
	want := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	for _, layout := range dateLayouts {
		formatted := want.Format(layout)
		got, err := time.Parse(layout, formatted)
		require.NoError(t, err, "layout %q", layout)
		assert.Equal(t, want.Year(), got.Year(), "layout %q", layout)
		assert.Equal(t, want.Month(), got.Month(), "layout %q", layout)
		assert.Equal(t, want.Day(), got.Day(), "layout %q", layout)
	}
}

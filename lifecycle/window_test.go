package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tp(t time.Time) *time.Time { return &t }

func TestTimeWindow_Usable(t *testing.T) {
	open := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	close := open.Add(48 * time.Hour)

	tests := []struct {
		name   string
		window TimeWindow
		want   bool
	}{
		{name: "both bounds ordered", window: TimeWindow{OpensAt: tp(open), ClosesAt: tp(close)}, want: true},
		{name: "bounds equal", window: TimeWindow{OpensAt: tp(open), ClosesAt: tp(open)}, want: true},
		{name: "inverted", window: TimeWindow{OpensAt: tp(close), ClosesAt: tp(open)}, want: false},
		{name: "missing close", window: TimeWindow{OpensAt: tp(open)}, want: false},
		{name: "missing open", window: TimeWindow{ClosesAt: tp(close)}, want: false},
		{name: "empty", window: TimeWindow{}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.window.Usable())
		})
	}
}

func TestTimeWindow_Position(t *testing.T) {
	open := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	close := open.Add(48 * time.Hour)
	w := TimeWindow{OpensAt: tp(open), ClosesAt: tp(close)}

	assert.True(t, w.Before(open.Add(-time.Minute)))
	assert.False(t, w.Before(open), "open bound is inclusive")

	assert.True(t, w.Contains(open))
	assert.True(t, w.Contains(open.Add(24*time.Hour)))
	assert.True(t, w.Contains(close), "close bound is inclusive")

	assert.True(t, w.After(close.Add(time.Second)))
	assert.False(t, w.After(close))
}

func TestTimeWindow_UnusableIsNowhere(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inverted := TimeWindow{OpensAt: tp(now.Add(time.Hour)), ClosesAt: tp(now.Add(-time.Hour))}

	assert.False(t, inverted.Before(now))
	assert.False(t, inverted.After(now))
	assert.False(t, inverted.Contains(now))
}

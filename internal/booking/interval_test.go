package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterval(t *testing.T) {
	start := time.Date(2026, 3, 1, 14, 0, 0, 0, time.FixedZone("CET", 3600))
	end := time.Date(2026, 3, 4, 11, 0, 0, 0, time.FixedZone("CET", 3600))

	iv, err := NewInterval(start, end)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, iv.Start.Location(), "endpoints are normalized to UTC")
	assert.Equal(t, time.UTC, iv.End.Location())
	assert.True(t, iv.Start.Equal(start))

	_, err = NewInterval(end, start)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(start, start)
	assert.ErrorIs(t, err, ErrInvalidInterval, "empty interval is invalid")
}

func TestIntervalOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 3, 1, h, 0, 0, 0, time.UTC)
	}
	base := Interval{Start: at(10), End: at(14)}

	cases := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", Interval{at(10), at(14)}, true},
		{"contained", Interval{at(11), at(12)}, true},
		{"containing", Interval{at(9), at(15)}, true},
		{"overlaps start", Interval{at(8), at(11)}, true},
		{"overlaps end", Interval{at(13), at(16)}, true},
		{"touches start", Interval{at(8), at(10)}, false},
		{"touches end", Interval{at(14), at(16)}, false},
		{"before", Interval{at(6), at(8)}, false},
		{"after", Interval{at(15), at(17)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base), "overlap is symmetric")
		})
	}
}

func TestIntervalContains(t *testing.T) {
	iv := Interval{
		Start: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC),
	}
	assert.True(t, iv.Contains(iv.Start), "start is inclusive")
	assert.True(t, iv.Contains(iv.Start.Add(time.Hour)))
	assert.False(t, iv.Contains(iv.End), "end is exclusive")
	assert.False(t, iv.Contains(iv.Start.Add(-time.Second)))
}

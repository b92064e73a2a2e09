package booking

import "time"

// Interval is a half-open time range [Start, End).  A room occupied
// until 11:00 can be handed to the next guest at exactly 11:00 without
// the two stays conflicting.
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval validates and normalizes an interval.  Both endpoints are
// converted to UTC.  It returns ErrInvalidInterval unless start < end
// strictly.
func NewInterval(start, end time.Time) (Interval, error) {
	start = start.UTC()
	end = end.UTC()
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share any instant:
// a.Start < b.End && a.End > b.Start.  Touching endpoints do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

package booking

import (
	"time"

	"deskhive/models"
)

// NewInterval validates and builds a half-open interval. Zero-length
// and inverted ranges are rejected here, at the point they originate.
func NewInterval(start, end time.Time) (models.Interval, error) {
	if !start.Before(end) {
		return models.Interval{}, NewInvalidIntervalError("interval start must be before end")
	}
	return models.Interval{Start: start, End: end}, nil
}

// boundingWindow returns the min start and max end across intervals.
// Used to scope the active-booking query before pairwise checks.
func boundingWindow(intervals []models.Interval) (time.Time, time.Time) {
	windowStart := intervals[0].Start
	windowEnd := intervals[0].End
	for _, iv := range intervals[1:] {
		if iv.Start.Before(windowStart) {
			windowStart = iv.Start
		}
		if iv.End.After(windowEnd) {
			windowEnd = iv.End
		}
	}
	return windowStart, windowEnd
}

package models

import "time"

// Frequency enumerates supported recurrence frequencies.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// RecurrenceRule describes how a booking repeats. Exactly one of
// OccurrenceCount and EndDate bounds the series; WEEKLY rules pick
// occurrences from DaysOfWeek.
type RecurrenceRule struct {
	Frequency       Frequency      `bson:"frequency" json:"frequency"`
	Interval        int            `bson:"interval" json:"interval"`                   // step in frequency units, e.g. every 2 weeks
	DaysOfWeek      []time.Weekday `bson:"daysOfWeek,omitempty" json:"daysOfWeek,omitempty"` // 0 = Sunday
	StartDate       time.Time      `bson:"startDate" json:"startDate"`
	OccurrenceCount int            `bson:"occurrenceCount,omitempty" json:"occurrenceCount,omitempty"` // 0 means unset
	EndDate         *time.Time     `bson:"endDate,omitempty" json:"endDate,omitempty"`                 // inclusive; nil means unset
}

// HasCountBound reports whether the rule terminates by occurrence count.
func (r RecurrenceRule) HasCountBound() bool {
	return r.OccurrenceCount > 0
}

// HasDateBound reports whether the rule terminates by end date.
func (r RecurrenceRule) HasDateBound() bool {
	return r.EndDate != nil
}

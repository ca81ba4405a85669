package booking

import (
	"fmt"
	"time"

	"deskhive/models"
)

// DefaultMaxOccurrences is the hard safety ceiling on expansion,
// independent of the rule's own termination bound. Exceeding it is a
// validation error, not silent truncation.
const DefaultMaxOccurrences = 366

// ValidateRule checks a recurrence rule before any expansion runs.
func ValidateRule(rule models.RecurrenceRule) error {
	switch rule.Frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
	default:
		return NewInvalidRecurrenceRuleError(fmt.Sprintf("unsupported frequency %q", rule.Frequency))
	}
	if rule.Interval < 1 {
		return NewInvalidRecurrenceRuleError("interval must be a positive integer")
	}
	if rule.StartDate.IsZero() {
		return NewInvalidRecurrenceRuleError("start date is required")
	}
	if rule.HasCountBound() == rule.HasDateBound() {
		return NewInvalidRecurrenceRuleError("exactly one of occurrenceCount and endDate must be set")
	}
	if rule.Frequency == models.FrequencyWeekly && len(rule.DaysOfWeek) == 0 {
		return NewInvalidRecurrenceRuleError("weekly rules require a non-empty daysOfWeek set")
	}
	for _, day := range rule.DaysOfWeek {
		if day < time.Sunday || day > time.Saturday {
			return NewInvalidRecurrenceRuleError(fmt.Sprintf("invalid weekday %d", day))
		}
	}
	return nil
}

// ExpandRule produces the ordered, finite occurrence list for a rule.
// Each occurrence inherits the base interval's time-of-day and
// duration, anchored to the occurrence's calendar date. The expansion
// is a pure function of its inputs: the same rule always yields the
// same sequence.
func ExpandRule(rule models.RecurrenceRule, base models.Interval, maxOccurrences int) ([]models.Interval, error) {
	if err := ValidateRule(rule); err != nil {
		return nil, err
	}
	if !base.IsValid() {
		return nil, NewInvalidIntervalError("base interval start must be before end")
	}
	if maxOccurrences <= 0 {
		maxOccurrences = DefaultMaxOccurrences
	}
	if rule.HasCountBound() && rule.OccurrenceCount > maxOccurrences {
		return nil, NewInvalidRecurrenceRuleError(fmt.Sprintf("occurrence count %d exceeds ceiling %d", rule.OccurrenceCount, maxOccurrences))
	}

	exp := &expansion{
		base:  base,
		loc:   base.Start.Location(),
		limit: rule.OccurrenceCount,
		max:   maxOccurrences,
	}
	exp.startDay = dateOf(rule.StartDate, exp.loc)
	if rule.HasDateBound() {
		untilDay := dateOf(*rule.EndDate, exp.loc)
		exp.untilDay = &untilDay
	}

	var err error
	switch rule.Frequency {
	case models.FrequencyDaily:
		err = exp.expandDaily(rule.Interval)
	case models.FrequencyWeekly:
		err = exp.expandWeekly(rule.Interval, rule.DaysOfWeek)
	case models.FrequencyMonthly:
		err = exp.expandMonthly(rule.Interval)
	}
	if err != nil {
		return nil, err
	}

	if len(exp.out) == 0 {
		return nil, NewInvalidRecurrenceRuleError("rule produces no occurrences")
	}
	return exp.out, nil
}

// expansion holds the cursor state of one ExpandRule call. It is local
// to the call; the expander keeps no hidden state between calls.
type expansion struct {
	base     models.Interval
	loc      *time.Location
	startDay time.Time
	untilDay *time.Time // inclusive calendar-date bound
	limit    int        // occurrence count bound, 0 when date-bounded
	max      int

	out []models.Interval
}

// emit appends the occurrence anchored on day d. It reports done when
// the count bound is reached and errors when the ceiling is exceeded.
func (e *expansion) emit(d time.Time) (done bool, err error) {
	if len(e.out) == e.max {
		return true, NewInvalidRecurrenceRuleError(fmt.Sprintf("expansion exceeds occurrence ceiling %d", e.max))
	}
	start := time.Date(d.Year(), d.Month(), d.Day(),
		e.base.Start.Hour(), e.base.Start.Minute(), e.base.Start.Second(), e.base.Start.Nanosecond(), e.loc)
	e.out = append(e.out, models.Interval{Start: start, End: start.Add(e.base.Duration())})
	return e.limit > 0 && len(e.out) == e.limit, nil
}

func (e *expansion) pastBound(d time.Time) bool {
	return e.untilDay != nil && d.After(*e.untilDay)
}

func (e *expansion) expandDaily(step int) error {
	for d := e.startDay; !e.pastBound(d); d = d.AddDate(0, 0, step) {
		done, err := e.emit(d)
		if err != nil {
			return err
		}
		if done {
			break
		}
	}
	return nil
}

func (e *expansion) expandWeekly(step int, daysOfWeek []time.Weekday) error {
	selected := make(map[time.Weekday]bool, len(daysOfWeek))
	for _, day := range daysOfWeek {
		selected[day] = true
	}

	// Each window covers 7 days from the cursor; scanning it in date
	// order yields matching weekdays ascending. A start date that falls
	// on none of the selected weekdays still snaps to the next match.
	for week := e.startDay; !e.pastBound(week); week = week.AddDate(0, 0, 7*step) {
		for offset := 0; offset < 7; offset++ {
			d := week.AddDate(0, 0, offset)
			if !selected[d.Weekday()] {
				continue
			}
			if e.pastBound(d) {
				return nil
			}
			done, err := e.emit(d)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
	return nil
}

func (e *expansion) expandMonthly(step int) error {
	day := e.startDay.Day()
	for k := 0; ; k++ {
		firstOfMonth := time.Date(e.startDay.Year(), e.startDay.Month()+time.Month(k*step), 1, 0, 0, 0, 0, e.loc)
		if e.pastBound(firstOfMonth) {
			return nil
		}
		d := time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, e.loc)
		// Months without the anchor day (e.g. the 31st) are skipped,
		// not normalized into the following month.
		if d.Month() != firstOfMonth.Month() {
			continue
		}
		if e.pastBound(d) {
			return nil
		}
		done, err := e.emit(d)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// dateOf truncates an instant to its calendar date in loc.
func dateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

package booking

import (
	"errors"
	"testing"
	"time"

	"deskhive/models"
)

func weeklyRule(count int, days ...time.Weekday) models.RecurrenceRule {
	return models.RecurrenceRule{
		Frequency:       models.FrequencyWeekly,
		Interval:        1,
		DaysOfWeek:      days,
		StartDate:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), // a Monday
		OccurrenceCount: count,
	}
}

func baseSlot() models.Interval {
	// 09:00-11:00 on the rule's start date.
	return models.Interval{
		Start: time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 1, 11, 0, 0, 0, time.UTC),
	}
}

func expectDates(t *testing.T, occurrences []models.Interval, dates ...time.Time) {
	t.Helper()
	if len(occurrences) != len(dates) {
		t.Fatalf("expected %d occurrences, got %d", len(dates), len(occurrences))
	}
	for i, want := range dates {
		if !occurrences[i].Start.Equal(want) {
			t.Errorf("occurrence %d: want start %v, got %v", i, want, occurrences[i].Start)
		}
	}
}

func TestExpandWeeklyMondayWednesday(t *testing.T) {
	rule := weeklyRule(4, time.Monday, time.Wednesday)

	occurrences, err := ExpandRule(rule, baseSlot(), 0)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	expectDates(t, occurrences,
		time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC),
	)

	for _, occ := range occurrences {
		if occ.Duration() != 2*time.Hour {
			t.Errorf("occurrence %v must inherit the base duration", occ)
		}
	}
}

func TestExpandWeeklySnapsToNextMatchingWeekday(t *testing.T) {
	// Start date is a Monday, but only Thursdays are selected: the
	// first occurrence is Thursday Jan 4, not the start date.
	rule := weeklyRule(2, time.Thursday)

	occurrences, err := ExpandRule(rule, baseSlot(), 0)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}
	expectDates(t, occurrences,
		time.Date(2024, time.January, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 11, 9, 0, 0, 0, time.UTC),
	)
}

func TestExpandWeeklyEveryOtherWeek(t *testing.T) {
	rule := weeklyRule(3, time.Monday)
	rule.Interval = 2

	occurrences, err := ExpandRule(rule, baseSlot(), 0)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}
	expectDates(t, occurrences,
		time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 29, 9, 0, 0, 0, time.UTC),
	)
}

func TestExpandDailyWithEndDate(t *testing.T) {
	end := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)
	rule := models.RecurrenceRule{
		Frequency: models.FrequencyDaily,
		Interval:  1,
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}

	occurrences, err := ExpandRule(rule, baseSlot(), 0)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}
	// End date is inclusive: Jan 1 through Jan 5.
	if len(occurrences) != 5 {
		t.Fatalf("expected 5 occurrences, got %d", len(occurrences))
	}
}

func TestExpandMonthlySkipsShortMonths(t *testing.T) {
	rule := models.RecurrenceRule{
		Frequency:       models.FrequencyMonthly,
		Interval:        1,
		StartDate:       time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		OccurrenceCount: 4,
	}

	occurrences, err := ExpandRule(rule, models.Interval{
		Start: time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC),
	}, 0)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	// February and April lack a 31st and are skipped, not normalized.
	expectDates(t, occurrences,
		time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 31, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.July, 31, 9, 0, 0, 0, time.UTC),
	)
}

func TestExpandIsDeterministic(t *testing.T) {
	rule := weeklyRule(10, time.Monday, time.Wednesday, time.Friday)

	first, err := ExpandRule(rule, baseSlot(), 0)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}
	second, err := ExpandRule(rule, baseSlot(), 0)
	if err != nil {
		t.Fatalf("ExpandRule: %v", err)
	}

	if len(first) != len(second) || len(first) != 10 {
		t.Fatalf("expected two identical 10-occurrence sequences, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Fatalf("occurrence %d differs between runs", i)
		}
	}
}

func TestValidateRuleRejections(t *testing.T) {
	end := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		rule models.RecurrenceRule
	}{
		{
			"both bounds set",
			models.RecurrenceRule{Frequency: models.FrequencyDaily, Interval: 1, StartDate: start, OccurrenceCount: 5, EndDate: &end},
		},
		{
			"neither bound set",
			models.RecurrenceRule{Frequency: models.FrequencyDaily, Interval: 1, StartDate: start},
		},
		{
			"weekly without weekdays",
			models.RecurrenceRule{Frequency: models.FrequencyWeekly, Interval: 1, StartDate: start, OccurrenceCount: 5},
		},
		{
			"zero interval",
			models.RecurrenceRule{Frequency: models.FrequencyDaily, Interval: 0, StartDate: start, OccurrenceCount: 5},
		},
		{
			"unknown frequency",
			models.RecurrenceRule{Frequency: "HOURLY", Interval: 1, StartDate: start, OccurrenceCount: 5},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRule(tc.rule)
			var ruleErr *InvalidRecurrenceRuleError
			if !errors.As(err, &ruleErr) {
				t.Fatalf("expected InvalidRecurrenceRuleError, got %v", err)
			}
			// Validation failures must surface before expansion runs.
			if _, expandErr := ExpandRule(tc.rule, baseSlot(), 0); expandErr == nil {
				t.Fatal("ExpandRule must reject what ValidateRule rejects")
			}
		})
	}
}

func TestExpandEnforcesOccurrenceCeiling(t *testing.T) {
	// A daily rule until far in the future must error, not truncate.
	end := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	rule := models.RecurrenceRule{
		Frequency: models.FrequencyDaily,
		Interval:  1,
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}

	_, err := ExpandRule(rule, baseSlot(), 30)
	var ruleErr *InvalidRecurrenceRuleError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected ceiling violation, got %v", err)
	}

	// A count bound above the ceiling is rejected up front.
	counted := models.RecurrenceRule{
		Frequency:       models.FrequencyDaily,
		Interval:        1,
		StartDate:       rule.StartDate,
		OccurrenceCount: 31,
	}
	if _, err := ExpandRule(counted, baseSlot(), 30); err == nil {
		t.Fatal("expected count bound above ceiling to be rejected")
	}
}

func TestExpandRejectsEmptyExpansion(t *testing.T) {
	// End date before the first occurrence yields no occurrences.
	end := time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)
	rule := models.RecurrenceRule{
		Frequency: models.FrequencyDaily,
		Interval:  1,
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &end,
	}
	if _, err := ExpandRule(rule, baseSlot(), 0); err == nil {
		t.Fatal("expected empty expansion to be rejected")
	}
}

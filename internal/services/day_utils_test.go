package services

import (
	"testing"
	"time"
)

func TestDayRangeNormalizesToLocationMidnight(t *testing.T) {
	location, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	raw := time.Date(2026, 3, 1, 19, 35, 10, 0, time.UTC)
	start, end := DayRange(raw, location)

	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("expected midnight start, got %s", start.Format(time.RFC3339))
	}
	if start.Day() != 2 {
		t.Fatalf("expected Tokyo calendar day 2, got %d", start.Day())
	}
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Fatalf("expected next day end, got %s", end.Format(time.RFC3339))
	}
}

func TestDayKeyUsesCalendarDate(t *testing.T) {
	raw := time.Date(2024, time.January, 15, 23, 59, 59, 0, time.UTC)
	if got := DayKey(raw, time.UTC); got != "2024-01-15" {
		t.Fatalf("DayKey() = %q, want 2024-01-15", got)
	}
}

func TestMonthStartAndKey(t *testing.T) {
	raw := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	start := MonthStart(raw, time.UTC)
	if start.Day() != 1 || start.Month() != time.August {
		t.Fatalf("unexpected month start %s", start.Format(time.RFC3339))
	}
	if got := MonthKey(raw, time.UTC); got != "2026-08" {
		t.Fatalf("MonthKey() = %q, want 2026-08", got)
	}
}

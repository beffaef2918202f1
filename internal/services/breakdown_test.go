package services

import (
	"testing"
	"time"

	"github.com/kmizuno/tally/internal/models"
)

func TestBuildCategoryBreakdownAppliesRangeFilter(t *testing.T) {
	t.Parallel()

	entries := []models.Entry{
		reportEntry(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), models.TypeSales, models.CategoryTraining, 2500),
		reportEntry(time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), models.TypeSales, models.CategorySpeaking, 500),
		// Outside the requested range.
		reportEntry(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), models.TypeSales, models.CategoryTraining, 4000),
		// Wrong type.
		reportEntry(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), models.TypeDelivery, models.CategoryCoaching, 1800),
	}

	from := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	shares := BuildCategoryBreakdown(entries, models.TypeSales, from, to, time.UTC)

	if len(shares) != 3 {
		t.Fatalf("expected all three categories, got %d", len(shares))
	}

	byCategory := make(map[string]CategoryShare, len(shares))
	for _, share := range shares {
		byCategory[share.Category] = share
	}

	if got := byCategory[models.CategoryTraining].Amount; got != 2500 {
		t.Fatalf("expected Training 2500 inside range, got %v", got)
	}
	if got := byCategory[models.CategorySpeaking].Amount; got != 500 {
		t.Fatalf("expected Speaking 500, got %v", got)
	}
	if got := byCategory[models.CategoryCoaching].Amount; got != 0 {
		t.Fatalf("expected Coaching 0 for sales, got %v", got)
	}
}

func TestBuildCategoryBreakdownRangeIsInclusiveOnBothEnds(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		reportEntry(day, models.TypeSales, models.CategoryTraining, 100),
	}

	shares := BuildCategoryBreakdown(entries, models.TypeSales, day, day, time.UTC)
	if got := shares[0].Amount; got != 100 {
		t.Fatalf("expected single-day range to include the day, got %v", got)
	}
}

func TestBuildCategoryBreakdownShares(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		reportEntry(day, models.TypeSales, models.CategoryTraining, 75),
		reportEntry(day, models.TypeSales, models.CategoryCoaching, 25),
	}

	shares := BuildCategoryBreakdown(entries, models.TypeSales, day, day, time.UTC)
	byCategory := make(map[string]CategoryShare, len(shares))
	for _, share := range shares {
		byCategory[share.Category] = share
	}

	if got := byCategory[models.CategoryTraining].Share; got != 75 {
		t.Fatalf("expected Training share 75%%, got %v", got)
	}
	if got := byCategory[models.CategorySpeaking].Share; got != 0 {
		t.Fatalf("expected Speaking share 0%%, got %v", got)
	}
}

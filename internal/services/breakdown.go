package services

import (
	"time"

	"github.com/kmizuno/tally/internal/models"
)

type CategoryShare struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"`
}

// BuildCategoryBreakdown sums amounts per category for one entry type over
// the inclusive [from, to] calendar-day range. Every category appears in the
// result even when its amount is zero; shares are percentages of the
// filtered total.
func BuildCategoryBreakdown(entries []models.Entry, entryType string, from time.Time, to time.Time, location *time.Location) []CategoryShare {
	rangeStart := DateAtLocation(from, location)
	rangeEnd := DateAtLocation(to, location).AddDate(0, 0, 1)

	amounts := make(map[string]float64, len(models.Categories()))
	total := 0.0
	for _, entry := range entries {
		if entry.Type != entryType {
			continue
		}
		day := DateAtLocation(entry.Date, location)
		if day.Before(rangeStart) || !day.Before(rangeEnd) {
			continue
		}
		if !models.IsValidCategory(entry.Category) {
			continue
		}
		amounts[entry.Category] += entry.Amount
		total += entry.Amount
	}

	shares := make([]CategoryShare, 0, len(models.Categories()))
	for _, category := range models.Categories() {
		share := CategoryShare{
			Category: category,
			Amount:   amounts[category],
		}
		if total > 0 {
			share.Share = share.Amount / total * 100
		}
		shares = append(shares, share)
	}
	return shares
}

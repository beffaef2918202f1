package services

import (
	"time"

	"github.com/kmizuno/tally/internal/models"
)

// ReportWindowMonths is the width of the trailing dashboard window. The
// running rate divides by this constant regardless of activity, so months
// without entries pull the pace down.
const ReportWindowMonths = 12

type MonthBucket struct {
	Start time.Time `json:"start"`
	Key   string    `json:"key"`
}

type CategorySeries struct {
	Category    string    `json:"category"`
	Monthly     []float64 `json:"monthly"`
	Total       float64   `json:"total"`
	ActiveMean  float64   `json:"active_mean"`
	RunningRate float64   `json:"running_rate"`
}

type TypeReport struct {
	Type          string           `json:"type"`
	Categories    []CategorySeries `json:"categories"`
	MonthlyTotals []float64        `json:"monthly_totals"`
	Total         float64          `json:"total"`
}

type MonthlyReport struct {
	Months   []MonthBucket `json:"months"`
	Sales    TypeReport    `json:"sales"`
	Delivery TypeReport    `json:"delivery"`
}

// TrailingMonths returns count month buckets ending with the month
// containing now, oldest first.
func TrailingMonths(now time.Time, location *time.Location, count int) []MonthBucket {
	if count <= 0 {
		return []MonthBucket{}
	}

	currentMonth := MonthStart(now, location)
	buckets := make([]MonthBucket, 0, count)
	for offset := count - 1; offset >= 0; offset-- {
		start := currentMonth.AddDate(0, -offset, 0)
		buckets = append(buckets, MonthBucket{
			Start: start,
			Key:   start.Format("2006-01"),
		})
	}
	return buckets
}

// ReportWindowBounds returns the [start, end) day bounds covered by the
// trailing report window ending at now.
func ReportWindowBounds(now time.Time, location *time.Location) (time.Time, time.Time) {
	months := TrailingMonths(now, location, ReportWindowMonths)
	start := months[0].Start
	end := months[len(months)-1].Start.AddDate(0, 1, 0)
	return start, end
}

// BuildMonthlyReport buckets entries into the trailing 12-month window and
// sums amounts per month per category for each type. Entries outside the
// window are ignored.
func BuildMonthlyReport(entries []models.Entry, now time.Time, location *time.Location) MonthlyReport {
	months := TrailingMonths(now, location, ReportWindowMonths)

	indexByMonth := make(map[string]int, len(months))
	for index, bucket := range months {
		indexByMonth[bucket.Key] = index
	}

	sums := make(map[string]map[string][]float64, len(models.Types()))
	for _, entryType := range models.Types() {
		sums[entryType] = make(map[string][]float64, len(models.Categories()))
		for _, category := range models.Categories() {
			sums[entryType][category] = make([]float64, len(months))
		}
	}

	for _, entry := range entries {
		monthIndex, inWindow := indexByMonth[MonthKey(entry.Date, location)]
		if !inWindow {
			continue
		}
		byCategory, knownType := sums[entry.Type]
		if !knownType {
			continue
		}
		monthly, knownCategory := byCategory[entry.Category]
		if !knownCategory {
			continue
		}
		monthly[monthIndex] += entry.Amount
	}

	return MonthlyReport{
		Months:   months,
		Sales:    buildTypeReport(models.TypeSales, sums[models.TypeSales], len(months)),
		Delivery: buildTypeReport(models.TypeDelivery, sums[models.TypeDelivery], len(months)),
	}
}

func buildTypeReport(entryType string, byCategory map[string][]float64, monthCount int) TypeReport {
	report := TypeReport{
		Type:          entryType,
		Categories:    make([]CategorySeries, 0, len(models.Categories())),
		MonthlyTotals: make([]float64, monthCount),
	}

	for _, category := range models.Categories() {
		monthly := byCategory[category]
		series := CategorySeries{
			Category: category,
			Monthly:  monthly,
		}

		activeMonths := 0
		for index, amount := range monthly {
			series.Total += amount
			report.MonthlyTotals[index] += amount
			if amount != 0 {
				activeMonths++
			}
		}
		if activeMonths > 0 {
			series.ActiveMean = series.Total / float64(activeMonths)
		}
		series.RunningRate = series.Total / float64(ReportWindowMonths)

		report.Total += series.Total
		report.Categories = append(report.Categories, series)
	}

	return report
}

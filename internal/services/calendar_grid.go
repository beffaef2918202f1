package services

import (
	"time"

	"github.com/kmizuno/tally/internal/models"
)

type CalendarCell struct {
	Date          time.Time
	DateString    string
	Day           int
	InMonth       bool
	IsToday       bool
	Entries       []models.Entry
	SalesTotal    float64
	DeliveryTotal float64
	HasEntries    bool
}

// CalendarGridRange returns the [start, end] days of the full-week grid that
// covers the month: the grid starts on the Sunday on or before the 1st, so
// the number of leading out-of-month cells equals the weekday of the 1st.
func CalendarGridRange(monthStart time.Time) (time.Time, time.Time) {
	monthEnd := monthStart.AddDate(0, 1, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, 6-int(monthEnd.Weekday()))
	return gridStart, gridEnd
}

// EntriesByDay buckets entries by their yyyy-MM-dd key, preserving input
// order within a day.
func EntriesByDay(entries []models.Entry, location *time.Location) map[string][]models.Entry {
	buckets := make(map[string][]models.Entry)
	for _, entry := range entries {
		key := DayKey(entry.Date, location)
		buckets[key] = append(buckets[key], entry)
	}
	return buckets
}

// BuildCalendarCells lays out the month grid with one cell per day, each
// holding exactly the entries dated that day plus per-type amount totals.
func BuildCalendarCells(monthStart time.Time, entries []models.Entry, now time.Time, location *time.Location) []CalendarCell {
	gridStart, gridEnd := CalendarGridRange(monthStart)
	buckets := EntriesByDay(entries, location)
	todayKey := DayKey(now, location)

	cells := make([]CalendarCell, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayKeyLayout)
		dayEntries := buckets[key]

		cell := CalendarCell{
			Date:       day,
			DateString: key,
			Day:        day.Day(),
			InMonth:    day.Month() == monthStart.Month(),
			IsToday:    key == todayKey,
			Entries:    dayEntries,
			HasEntries: len(dayEntries) > 0,
		}
		for _, entry := range dayEntries {
			switch entry.Type {
			case models.TypeSales:
				cell.SalesTotal += entry.Amount
			case models.TypeDelivery:
				cell.DeliveryTotal += entry.Amount
			}
		}

		cells = append(cells, cell)
	}

	return cells
}

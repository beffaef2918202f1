package services

import (
	"strconv"
	"time"

	"github.com/kmizuno/tally/internal/models"
)

const exportDateLayout = "2006-01-02"

var ExportCSVHeaders = []string{
	"Date",
	"Type",
	"Category",
	"Amount",
	"Title",
	"Notes",
	"Created At",
	"Updated At",
}

type ExportJSONEntry struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Title    string  `json:"title"`
	Notes    string  `json:"notes"`
}

type ExportDocument struct {
	GeneratedAt string            `json:"generated_at"`
	From        string            `json:"from,omitempty"`
	To          string            `json:"to,omitempty"`
	Entries     []ExportJSONEntry `json:"entries"`
}

// BuildExportCSVRows renders one CSV row per entry, dates in local calendar
// form and timestamps in RFC 3339.
func BuildExportCSVRows(entries []models.Entry, location *time.Location) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			DateAtLocation(entry.Date, location).Format(exportDateLayout),
			entry.Type,
			entry.Category,
			strconv.FormatFloat(entry.Amount, 'f', -1, 64),
			entry.Title,
			entry.Notes,
			entry.CreatedAt.In(location).Format(time.RFC3339),
			entry.UpdatedAt.In(location).Format(time.RFC3339),
		})
	}
	return rows
}

func BuildExportDocument(entries []models.Entry, from *time.Time, to *time.Time, now time.Time, location *time.Location) ExportDocument {
	document := ExportDocument{
		GeneratedAt: now.In(location).Format(time.RFC3339),
		Entries:     make([]ExportJSONEntry, 0, len(entries)),
	}
	if from != nil {
		document.From = DateAtLocation(*from, location).Format(exportDateLayout)
	}
	if to != nil {
		document.To = DateAtLocation(*to, location).Format(exportDateLayout)
	}

	for _, entry := range entries {
		document.Entries = append(document.Entries, ExportJSONEntry{
			Date:     DateAtLocation(entry.Date, location).Format(exportDateLayout),
			Type:     entry.Type,
			Category: entry.Category,
			Amount:   entry.Amount,
			Title:    entry.Title,
			Notes:    entry.Notes,
		})
	}
	return document
}

package services

import (
	"errors"
	"strings"
	"time"

	"github.com/kmizuno/tally/internal/models"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidType     = errors.New("invalid entry type")
	ErrInvalidCategory = errors.New("invalid entry category")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrDateRequired    = errors.New("date is required")
)

type EntryInput struct {
	Date     time.Time
	Type     string
	Category string
	Amount   float64
	Title    string
	Notes    string
}

// NormalizeEntryInput validates and canonicalizes user-supplied entry
// fields. The date is truncated to local midnight so calendar bucketing by
// yyyy-MM-dd stays exact.
func NormalizeEntryInput(input EntryInput, location *time.Location) (EntryInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Notes = strings.TrimSpace(input.Notes)
	input.Type = strings.ToLower(strings.TrimSpace(input.Type))
	input.Category = strings.TrimSpace(input.Category)

	if input.Date.IsZero() {
		return EntryInput{}, ErrDateRequired
	}
	if input.Title == "" {
		return EntryInput{}, ErrTitleRequired
	}
	if !models.IsValidType(input.Type) {
		return EntryInput{}, ErrInvalidType
	}
	if !models.IsValidCategory(input.Category) {
		return EntryInput{}, ErrInvalidCategory
	}
	if input.Amount < 0 {
		return EntryInput{}, ErrNegativeAmount
	}

	input.Date = DateAtLocation(input.Date, location)
	return input, nil
}

// ApplyEntryInput copies normalized input onto an entry, leaving ownership
// and bookkeeping fields alone.
func ApplyEntryInput(entry *models.Entry, input EntryInput) {
	entry.Date = input.Date
	entry.Type = input.Type
	entry.Category = input.Category
	entry.Amount = input.Amount
	entry.Title = input.Title
	entry.Notes = input.Notes
}

package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
	"github.com/kmizuno/tally/internal/services"
)

type entryPayload struct {
	Date     string  `json:"date" form:"date"`
	Type     string  `json:"type" form:"type"`
	Category string  `json:"category" form:"category"`
	Amount   float64 `json:"amount" form:"amount"`
	Title    string  `json:"title" form:"title"`
	Notes    string  `json:"notes" form:"notes"`
}

func (handler *Handler) parseEntryInput(c *fiber.Ctx) (services.EntryInput, error) {
	payload := entryPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return services.EntryInput{}, err
	}

	input := services.EntryInput{
		Type:     payload.Type,
		Category: payload.Category,
		Amount:   payload.Amount,
		Title:    payload.Title,
		Notes:    payload.Notes,
	}
	if raw := strings.TrimSpace(payload.Date); raw != "" {
		date, err := handler.parseDayParam(raw)
		if err != nil {
			return services.EntryInput{}, services.ErrDateRequired
		}
		input.Date = date
	}
	return services.NormalizeEntryInput(input, handler.location)
}

func entryInputErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		return "title is required"
	case errors.Is(err, services.ErrInvalidType):
		return "invalid entry type"
	case errors.Is(err, services.ErrInvalidCategory):
		return "invalid entry category"
	case errors.Is(err, services.ErrNegativeAmount):
		return "amount must not be negative"
	case errors.Is(err, services.ErrDateRequired):
		return "a valid date is required"
	default:
		return "invalid input"
	}
}

func parseEntryIDParam(c *fiber.Ctx) (uint, error) {
	parsed, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid entry id")
	}
	return uint(parsed), nil
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	from, to, err := handler.parseRangeQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	var fromStart, toEnd *time.Time
	if from != nil {
		start := services.DateAtLocation(*from, handler.location)
		fromStart = &start
	}
	if to != nil {
		end := services.DateAtLocation(*to, handler.location).AddDate(0, 0, 1)
		toEnd = &end
	}

	entries, err := handler.repos.Entries.ListByUserRange(user.ID, fromStart, toEnd)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	input, err := handler.parseEntryInput(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, entryInputErrorMessage(err))
	}

	entry := models.Entry{UserID: user.ID}
	services.ApplyEntryInput(&entry, input)
	if err := handler.repos.Entries.Create(&entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save entry")
	}

	if isHTMX(c) {
		c.Set("HX-Trigger", "entries-changed")
		return handler.renderDayPanel(c, user.ID, entry.Date)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

func (handler *Handler) UpdateEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	entryID, err := parseEntryIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	input, err := handler.parseEntryInput(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, entryInputErrorMessage(err))
	}

	entry, found, err := handler.repos.Entries.FindByIDForUser(user.ID, entryID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entry")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	services.ApplyEntryInput(&entry, input)
	if err := handler.repos.Entries.Save(&entry); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to save entry")
	}

	if isHTMX(c) {
		c.Set("HX-Trigger", "entries-changed")
		if c.Get("HX-Target") == "day-panel" {
			return handler.renderDayPanel(c, user.ID, entry.Date)
		}
		return handler.renderEntryRow(c, entry)
	}
	return c.JSON(fiber.Map{"entry": entry})
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	entryID, err := parseEntryIDParam(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	entry, found, err := handler.repos.Entries.FindByIDForUser(user.ID, entryID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entry")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	deleted, err := handler.repos.Entries.DeleteByIDForUser(user.ID, entryID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete entry")
	}
	if !deleted {
		return apiError(c, fiber.StatusNotFound, "not found")
	}

	if isHTMX(c) {
		c.Set("HX-Trigger", "entries-changed")
		if c.Get("HX-Target") == "day-panel" {
			return handler.renderDayPanel(c, user.ID, entry.Date)
		}
		return c.SendString("")
	}
	return c.JSON(fiber.Map{"ok": true})
}

// DeleteAllEntries clears every entry the signed-in user owns.
func (handler *Handler) DeleteAllEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	if err := handler.repos.Entries.DeleteAllForUser(user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to delete entries")
	}

	if isHTMX(c) {
		c.Set("HX-Trigger", "entries-changed")
		return c.SendString("")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) renderEntryRow(c *fiber.Ctx, entry models.Entry) error {
	return handler.renderPartial(c, "entry_row_partial", fiber.Map{
		"Entry":      entry,
		"Types":      models.Types(),
		"Categories": models.Categories(),
	})
}

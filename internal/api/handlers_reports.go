package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
	"github.com/kmizuno/tally/internal/services"
)

func (handler *Handler) GetMonthlyReport(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	now := time.Now().In(handler.location)
	windowStart, windowEnd := services.ReportWindowBounds(now, handler.location)
	entries, err := handler.repos.Entries.ListByUserRange(user.ID, &windowStart, &windowEnd)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	return c.JSON(services.BuildMonthlyReport(entries, now, handler.location))
}

func (handler *Handler) GetCategoryBreakdown(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	entryType := c.Query("type", models.TypeSales)
	if !models.IsValidType(entryType) {
		return apiError(c, fiber.StatusBadRequest, "invalid entry type")
	}

	now := time.Now().In(handler.location)
	windowStart, windowEnd := services.ReportWindowBounds(now, handler.location)
	from := windowStart
	to := windowEnd.AddDate(0, 0, -1)

	requestedFrom, requestedTo, err := handler.parseRangeQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if requestedFrom != nil {
		from = *requestedFrom
	}
	if requestedTo != nil {
		to = *requestedTo
	}

	entries, err := handler.repos.Entries.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	return c.JSON(fiber.Map{
		"type":      entryType,
		"from":      services.DayKey(from, handler.location),
		"to":        services.DayKey(to, handler.location),
		"breakdown": services.BuildCategoryBreakdown(entries, entryType, from, to, handler.location),
	})
}

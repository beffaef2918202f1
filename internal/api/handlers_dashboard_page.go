package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
	"github.com/kmizuno/tally/internal/services"
)

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth", fiber.StatusSeeOther)
	}

	now := time.Now().In(handler.location)
	windowStart, windowEnd := services.ReportWindowBounds(now, handler.location)

	breakdownType := models.TypeSales
	if requested := c.Query("type"); requested != "" {
		if !models.IsValidType(requested) {
			return apiError(c, fiber.StatusBadRequest, "invalid entry type")
		}
		breakdownType = requested
	}

	from, to, err := handler.parseRangeQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	breakdownFrom := windowStart
	breakdownTo := windowEnd.AddDate(0, 0, -1)
	if from != nil {
		breakdownFrom = *from
	}
	if to != nil {
		breakdownTo = *to
	}

	entries, err := handler.repos.Entries.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	report := services.BuildMonthlyReport(entries, now, handler.location)
	breakdown := services.BuildCategoryBreakdown(entries, breakdownType, breakdownFrom, breakdownTo, handler.location)

	return handler.render(c, "dashboard", fiber.Map{
		"Title":         "dashboard.title",
		"Report":        report,
		"Breakdown":     breakdown,
		"BreakdownType": breakdownType,
		"BreakdownFrom": services.DayKey(breakdownFrom, handler.location),
		"BreakdownTo":   services.DayKey(breakdownTo, handler.location),
		"Types":         models.Types(),
		"Categories":    models.Categories(),
	})
}

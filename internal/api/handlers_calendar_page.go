package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
	"github.com/kmizuno/tally/internal/services"
)

func (handler *Handler) ShowCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth", fiber.StatusSeeOther)
	}

	now := time.Now().In(handler.location)
	monthStart, err := handler.parseMonthQuery(c, now)
	if err != nil {
		return c.Redirect("/calendar", fiber.StatusSeeOther)
	}

	selectedDay := services.DateAtLocation(now, handler.location)
	if raw := c.Query("day"); raw != "" {
		parsed, err := handler.parseDayParam(raw)
		if err != nil {
			return c.Redirect("/calendar", fiber.StatusSeeOther)
		}
		selectedDay = parsed
	} else if monthStart.Month() != now.Month() || monthStart.Year() != now.Year() {
		selectedDay = monthStart
	}

	gridStart, gridEnd := services.CalendarGridRange(monthStart)
	rangeEnd := gridEnd.AddDate(0, 0, 1)
	entries, err := handler.repos.Entries.ListByUserRange(user.ID, &gridStart, &rangeEnd)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	cells := services.BuildCalendarCells(monthStart, entries, now, handler.location)
	dayEntries, salesTotal, deliveryTotal, err := handler.loadDayEntries(user.ID, selectedDay)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	return handler.render(c, "calendar", fiber.Map{
		"Title":         "calendar.title",
		"MonthStart":    monthStart,
		"MonthKey":      monthStart.Format("2006-01"),
		"PrevMonthKey":  monthStart.AddDate(0, -1, 0).Format("2006-01"),
		"NextMonthKey":  monthStart.AddDate(0, 1, 0).Format("2006-01"),
		"Cells":         cells,
		"SelectedDay":   services.DayKey(selectedDay, handler.location),
		"DayEntries":    dayEntries,
		"SalesTotal":    salesTotal,
		"DeliveryTotal": deliveryTotal,
		"Types":         models.Types(),
		"Categories":    models.Categories(),
	})
}

func (handler *Handler) CalendarDayPanel(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	day, err := handler.parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	return handler.renderDayPanel(c, user.ID, day)
}

func (handler *Handler) loadDayEntries(userID uint, day time.Time) ([]models.Entry, float64, float64, error) {
	dayStart, dayEnd := services.DayRange(day, handler.location)
	entries, err := handler.repos.Entries.ListByUserDayRange(userID, dayStart, dayEnd)
	if err != nil {
		return nil, 0, 0, err
	}

	salesTotal := 0.0
	deliveryTotal := 0.0
	for _, entry := range entries {
		switch entry.Type {
		case models.TypeSales:
			salesTotal += entry.Amount
		case models.TypeDelivery:
			deliveryTotal += entry.Amount
		}
	}
	return entries, salesTotal, deliveryTotal, nil
}

func (handler *Handler) renderDayPanel(c *fiber.Ctx, userID uint, day time.Time) error {
	entries, salesTotal, deliveryTotal, err := handler.loadDayEntries(userID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	return handler.renderPartial(c, "day_panel_partial", fiber.Map{
		"Day":           services.DayKey(day, handler.location),
		"DayEntries":    entries,
		"SalesTotal":    salesTotal,
		"DeliveryTotal": deliveryTotal,
		"Types":         models.Types(),
		"Categories":    models.Categories(),
	})
}

package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	dayQueryLayout   = "2006-01-02"
	monthQueryLayout = "2006-01"
)

func (handler *Handler) parseDayParam(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	parsed, err := time.ParseInLocation(dayQueryLayout, trimmed, handler.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", trimmed)
	}
	return parsed, nil
}

func (handler *Handler) parseMonthQuery(c *fiber.Ctx, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(c.Query("month"))
	if raw == "" {
		return time.Date(fallback.Year(), fallback.Month(), 1, 0, 0, 0, 0, handler.location), nil
	}
	parsed, err := time.ParseInLocation(monthQueryLayout, raw, handler.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q", raw)
	}
	return parsed, nil
}

// parseOptionalDayQuery reads a yyyy-MM-dd query parameter, returning nil
// when the parameter is absent.
func (handler *Handler) parseOptionalDayQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := handler.parseDayParam(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (handler *Handler) parseRangeQuery(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	from, err := handler.parseOptionalDayQuery(c, "from")
	if err != nil {
		return nil, nil, err
	}
	to, err := handler.parseOptionalDayQuery(c, "to")
	if err != nil {
		return nil, nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("range end %s is before range start %s",
			to.Format(dayQueryLayout), from.Format(dayQueryLayout))
	}
	return from, to, nil
}

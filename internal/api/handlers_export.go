package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
	"github.com/kmizuno/tally/internal/services"
)

func (handler *Handler) listEntriesForExport(userID uint, from *time.Time, to *time.Time) ([]models.Entry, error) {
	var fromStart, toEnd *time.Time
	if from != nil {
		start := services.DateAtLocation(*from, handler.location)
		fromStart = &start
	}
	if to != nil {
		end := services.DateAtLocation(*to, handler.location).AddDate(0, 0, 1)
		toEnd = &end
	}
	return handler.repos.Entries.ListByUserRange(userID, fromStart, toEnd)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	from, to, err := handler.parseRangeQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	entries, err := handler.listEntriesForExport(user.ID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range services.BuildExportCSVRows(entries, handler.location) {
		if err := writer.Write(row); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	filename := fmt.Sprintf("tally-export-%s.csv", time.Now().In(handler.location).Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "authentication required")
	}

	from, to, err := handler.parseRangeQuery(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}

	entries, err := handler.listEntriesForExport(user.ID, from, to)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	now := time.Now().In(handler.location)
	document := services.BuildExportDocument(entries, from, to, now, handler.location)

	filename := fmt.Sprintf("tally-export-%s.json", now.Format("20060102-150405"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.JSON(document)
}

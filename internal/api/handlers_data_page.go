package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
)

func (handler *Handler) ShowData(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth", fiber.StatusSeeOther)
	}

	entries, err := handler.repos.Entries.ListByUser(user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load entries")
	}

	return handler.render(c, "data", fiber.Map{
		"Title":      "data.title",
		"Entries":    entries,
		"Types":      models.Types(),
		"Categories": models.Categories(),
	})
}

package api

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.templates[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}
	payload := handler.withTemplateDefaults(c, data)
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, "base", payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) renderPartial(c *fiber.Ctx, name string, data fiber.Map) error {
	tmpl, ok := handler.partials[name]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).SendString("partial not found")
	}
	payload := handler.withTemplateDefaults(c, data)
	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, name, payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render partial")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}

func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	payload := fiber.Map{}
	for key, value := range data {
		payload[key] = value
	}

	if _, ok := payload["Language"]; !ok {
		payload["Language"] = currentLanguage(c)
	}
	if _, ok := payload["Messages"]; !ok {
		payload["Messages"] = currentMessages(c)
	}
	if _, ok := payload["CSRFToken"]; !ok {
		payload["CSRFToken"] = csrfToken(c)
	}
	if _, ok := payload["CurrentPath"]; !ok {
		payload["CurrentPath"] = c.Path()
	}
	if _, ok := payload["User"]; !ok {
		if user, ok := currentUser(c); ok {
			payload["User"] = user
		}
	}
	return payload
}

// ShowNotFound is the catch-all route.
func (handler *Handler) ShowNotFound(c *fiber.Ctx) error {
	if acceptsJSON(c) || isHTMX(c) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	c.Status(fiber.StatusNotFound)
	return handler.render(c, "not_found", fiber.Map{
		"Title": "notfound.title",
	})
}

package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ShowAuthPage(c *fiber.Ctx) error {
	if user, err := handler.authenticateRequest(c); err == nil && user != nil && !user.MustChangePassword {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	flash := handler.popFlashCookie(c)
	authError := ""
	if flash.AuthError != "" {
		if key := authErrorTranslationKey(flash.AuthError); key != "" {
			authError = translateMessage(currentMessages(c), key)
		} else {
			authError = flash.AuthError
		}
	}
	formSuccess := ""
	if flash.FormSuccess != "" {
		formSuccess = translateMessage(currentMessages(c), flash.FormSuccess)
	}

	return handler.render(c, "auth", fiber.Map{
		"Title":          "auth.title",
		"AuthError":      authError,
		"FormSuccess":    formSuccess,
		"LoginEmail":     flash.LoginEmail,
		"ChangeMode":     c.Query("change") == "1",
		"TwitterEnabled": handler.twitter != nil,
	})
}

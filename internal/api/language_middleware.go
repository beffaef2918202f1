package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LanguageMiddleware resolves the request language from the language cookie
// or the Accept-Language header and stashes the merged message map in
// request locals.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := strings.TrimSpace(c.Cookies(languageCookieName))
	if language == "" {
		language = handler.i18n.DetectFromAcceptLanguage(c.Get("Accept-Language"))
	}
	language = handler.i18n.NormalizeLanguage(language)

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	language := handler.i18n.NormalizeLanguage(c.Params("lang"))
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    language,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
	return c.Redirect(sanitizeRedirectPath(c.Get("Referer"), "/"), fiber.StatusSeeOther)
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, _ := c.Locals(contextMessagesKey).(map[string]string)
	return messages
}

func translateMessage(messages map[string]string, key string) string {
	if messages == nil {
		return key
	}
	if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func typeTranslationKey(entryType string) string {
	return "type." + strings.ToLower(strings.TrimSpace(entryType))
}

func categoryTranslationKey(category string) string {
	return "category." + strings.ToLower(strings.TrimSpace(category))
}

func authErrorTranslationKey(message string) string {
	switch strings.ToLower(strings.TrimSpace(message)) {
	case "invalid input":
		return "auth.error.invalid_input"
	case "invalid credentials":
		return "auth.error.invalid_credentials"
	case "email already exists":
		return "auth.error.email_exists"
	case "weak password":
		return "auth.error.weak_password"
	case "password mismatch":
		return "auth.error.password_mismatch"
	case "password change required":
		return "auth.error.change_required"
	case "sign-in with x failed":
		return "auth.error.oauth_failed"
	case "not found":
		return "error.not_found"
	default:
		return ""
	}
}

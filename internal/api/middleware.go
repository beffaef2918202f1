package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
)

const (
	authCookieName       = "tally_auth"
	languageCookieName   = "tally_lang"
	flashCookieName      = "tally_flash"
	oauthStateCookieName = "tally_oauth_state"
	contextUserKey       = "current_user"
	contextLanguageKey   = "current_language"
	contextMessagesKey   = "current_messages"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
	"github.com/kmizuno/tally/internal/security"
	"golang.org/x/oauth2"
)

const (
	twitterAuthURL     = "https://twitter.com/i/oauth2/authorize"
	twitterTokenURL    = "https://api.twitter.com/2/oauth2/token"
	twitterUserInfoURL = "https://api.twitter.com/2/users/me"

	oauthStateAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	oauthStateTTL      = 10 * time.Minute
)

// TwitterOAuth holds the "Sign in with X" client configuration. The token
// exchange uses PKCE; identity comes from the users/me endpoint.
type TwitterOAuth struct {
	Config      *oauth2.Config
	UserInfoURL string
	HTTPClient  *http.Client
}

func NewTwitterOAuth(clientID string, clientSecret string, redirectURL string) *TwitterOAuth {
	if strings.TrimSpace(clientID) == "" {
		return nil
	}
	return &TwitterOAuth{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"users.read", "tweet.read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  twitterAuthURL,
				TokenURL: twitterTokenURL,
			},
		},
		UserInfoURL: twitterUserInfoURL,
	}
}

type oauthStatePayload struct {
	State    string `json:"state"`
	Verifier string `json:"verifier"`
}

type twitterIdentity struct {
	ID       string
	Name     string
	Username string
}

func (handler *Handler) TwitterStart(c *fiber.Ctx) error {
	if handler.twitter == nil {
		return handler.respondAuthError(c, fiber.StatusNotFound, "sign-in with x failed")
	}

	state, err := security.RandomString(32, oauthStateAlphabet)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start sign-in")
	}
	verifier := oauth2.GenerateVerifier()

	if err := handler.setOAuthStateCookie(c, oauthStatePayload{State: state, Verifier: verifier}); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to start sign-in")
	}

	authURL := handler.twitter.Config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	return c.Redirect(authURL, fiber.StatusSeeOther)
}

func (handler *Handler) TwitterCallback(c *fiber.Ctx) error {
	if handler.twitter == nil {
		return handler.respondAuthError(c, fiber.StatusNotFound, "sign-in with x failed")
	}

	payload, err := handler.popOAuthStateCookie(c)
	if err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "sign-in with x failed")
	}
	if c.Query("error") != "" {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "sign-in with x failed")
	}
	if state := strings.TrimSpace(c.Query("state")); state == "" || state != payload.State {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "sign-in with x failed")
	}
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		return handler.respondAuthError(c, fiber.StatusBadRequest, "sign-in with x failed")
	}

	ctx := c.UserContext()
	if handler.twitter.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, handler.twitter.HTTPClient)
	}

	token, err := handler.twitter.Config.Exchange(ctx, code, oauth2.VerifierOption(payload.Verifier))
	if err != nil {
		return handler.respondAuthError(c, fiber.StatusBadGateway, "sign-in with x failed")
	}

	identity, err := handler.fetchTwitterIdentity(ctx, token)
	if err != nil {
		return handler.respondAuthError(c, fiber.StatusBadGateway, "sign-in with x failed")
	}

	user, err := handler.upsertTwitterUser(identity)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	if err := handler.setAuthCookie(c, user, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (handler *Handler) fetchTwitterIdentity(ctx context.Context, token *oauth2.Token) (twitterIdentity, error) {
	client := handler.twitter.Config.Client(ctx, token)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, handler.twitter.UserInfoURL, nil)
	if err != nil {
		return twitterIdentity{}, err
	}
	response, err := client.Do(request)
	if err != nil {
		return twitterIdentity{}, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return twitterIdentity{}, fmt.Errorf("userinfo status %d", response.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return twitterIdentity{}, err
	}

	var decoded struct {
		Data struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return twitterIdentity{}, err
	}
	if strings.TrimSpace(decoded.Data.ID) == "" {
		return twitterIdentity{}, errors.New("userinfo response has no id")
	}

	return twitterIdentity{
		ID:       decoded.Data.ID,
		Name:     decoded.Data.Name,
		Username: decoded.Data.Username,
	}, nil
}

func (handler *Handler) upsertTwitterUser(identity twitterIdentity) (*models.User, error) {
	user, found, err := handler.repos.Users.FindByTwitterID(identity.ID)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(identity.Name)
	if displayName == "" {
		displayName = strings.TrimSpace(identity.Username)
	}

	if found {
		if displayName != "" && user.DisplayName != displayName {
			user.DisplayName = displayName
			if err := handler.repos.Users.Save(&user); err != nil {
				return nil, err
			}
		}
		return &user, nil
	}

	user = models.User{
		TwitterID:   identity.ID,
		DisplayName: displayName,
		CreatedAt:   time.Now().In(handler.location),
	}
	if err := handler.repos.Users.Create(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (handler *Handler) setOAuthStateCookie(c *fiber.Ctx, payload oauthStatePayload) error {
	serialized, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(serialized),
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(oauthStateTTL),
	})
	return nil
}

func (handler *Handler) popOAuthStateCookie(c *fiber.Ctx) (oauthStatePayload, error) {
	raw := strings.TrimSpace(c.Cookies(oauthStateCookieName))
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	if raw == "" {
		return oauthStatePayload{}, errors.New("missing oauth state cookie")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return oauthStatePayload{}, err
	}
	payload := oauthStatePayload{}
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return oauthStatePayload{}, err
	}
	if payload.State == "" || payload.Verifier == "" {
		return oauthStatePayload{}, errors.New("incomplete oauth state cookie")
	}
	return payload, nil
}

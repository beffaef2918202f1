package api

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kmizuno/tally/internal/models"
	"golang.org/x/oauth2"
)

func newStubTwitter(t *testing.T) (*TwitterOAuth, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"stub-token","token_type":"bearer","expires_in":3600}`))
		case "/userinfo":
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"id":"12345","name":"Kaori","username":"kaori_m"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	twitter := &TwitterOAuth{
		Config: &oauth2.Config{
			ClientID:     "stub-client",
			ClientSecret: "stub-secret",
			RedirectURL:  "http://localhost/api/auth/twitter/callback",
			Scopes:       []string{"users.read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  server.URL + "/authorize",
				TokenURL: server.URL + "/token",
			},
		},
		UserInfoURL: server.URL + "/userinfo",
		HTTPClient:  server.Client(),
	}
	return twitter, server
}

func startTwitterFlow(t *testing.T, app *fiber.App) (string, string) {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, "/api/auth/twitter/start", nil)
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("start request failed: %v", err)
	}
	response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", response.StatusCode)
	}

	location := response.Header.Get("Location")
	parsed, err := url.Parse(location)
	if err != nil {
		t.Fatalf("parse redirect %q: %v", location, err)
	}
	state := parsed.Query().Get("state")
	if state == "" {
		t.Fatal("expected state in authorize redirect")
	}
	if parsed.Query().Get("code_challenge") == "" {
		t.Fatal("expected PKCE challenge in authorize redirect")
	}

	stateCookie := ""
	for _, cookie := range response.Cookies() {
		if cookie.Name == oauthStateCookieName && cookie.Value != "" {
			stateCookie = cookie.Name + "=" + cookie.Value
		}
	}
	if stateCookie == "" {
		t.Fatal("expected oauth state cookie")
	}
	return state, stateCookie
}

func TestTwitterSignInCreatesUserAndSession(t *testing.T) {
	twitter, _ := newStubTwitter(t)
	app, database, _ := newTestAppWithTwitter(t, twitter)

	state, stateCookie := startTwitterFlow(t, app)

	callback := httptest.NewRequest(http.MethodGet,
		"/api/auth/twitter/callback?state="+url.QueryEscape(state)+"&code=stub-code", nil)
	callback.Header.Set("Cookie", stateCookie)

	response, err := app.Test(callback, -1)
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}

	authCookie := ""
	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			authCookie = cookie.Value
		}
	}
	if authCookie == "" {
		t.Fatal("expected auth cookie after oauth sign-in")
	}

	var user models.User
	if err := database.Where("twitter_id = ?", "12345").First(&user).Error; err != nil {
		t.Fatalf("load oauth user: %v", err)
	}
	if user.DisplayName != "Kaori" {
		t.Fatalf("expected display name from identity, got %q", user.DisplayName)
	}
	if user.HasPassword() {
		t.Fatal("oauth-only account must not have a password hash")
	}
}

func TestTwitterCallbackRejectsStateMismatch(t *testing.T) {
	twitter, _ := newStubTwitter(t)
	app, database, _ := newTestAppWithTwitter(t, twitter)

	_, stateCookie := startTwitterFlow(t, app)

	callback := httptest.NewRequest(http.MethodGet,
		"/api/auth/twitter/callback?state=forged&code=stub-code", nil)
	callback.Header.Set("Cookie", stateCookie)

	response, err := app.Test(callback, -1)
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect back to auth page, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/auth" {
		t.Fatalf("expected redirect to /auth, got %q", location)
	}

	var count int64
	if err := database.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no user created on state mismatch, got %d", count)
	}
}

func TestTwitterSignInReusesExistingAccount(t *testing.T) {
	twitter, _ := newStubTwitter(t)
	app, database, _ := newTestAppWithTwitter(t, twitter)

	existing := models.User{TwitterID: "12345", DisplayName: "Old Name"}
	if err := database.Create(&existing).Error; err != nil {
		t.Fatalf("seed oauth user: %v", err)
	}

	state, stateCookie := startTwitterFlow(t, app)

	callback := httptest.NewRequest(http.MethodGet,
		"/api/auth/twitter/callback?state="+url.QueryEscape(state)+"&code=stub-code", nil)
	callback.Header.Set("Cookie", stateCookie)

	response, err := app.Test(callback, -1)
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	response.Body.Close()

	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", response.StatusCode)
	}

	var count int64
	if err := database.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected sign-in to reuse the existing account, got %d users", count)
	}

	var user models.User
	if err := database.Where("twitter_id = ?", "12345").First(&user).Error; err != nil {
		t.Fatalf("load oauth user: %v", err)
	}
	if user.DisplayName != "Kaori" {
		t.Fatalf("expected refreshed display name, got %q", user.DisplayName)
	}
}

func TestTwitterStartDisabledWithoutConfig(t *testing.T) {
	app, _, _ := newTestApp(t)

	request := httptest.NewRequest(http.MethodGet, "/api/auth/twitter/start", nil)
	request.Header.Set("Accept", "application/json")
	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("start request failed: %v", err)
	}
	response.Body.Close()

	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 when oauth is not configured, got %d", response.StatusCode)
	}
}

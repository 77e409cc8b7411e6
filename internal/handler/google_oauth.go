package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"

	"classhub/config"
	"classhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleStateCookie = "classhub_oauth_state"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleTokenInfo   = "https://oauth2.googleapis.com/tokeninfo"
)

// GoogleOAuthHandler is Google sign-in: the web redirect flow and ID-token
// exchange for mobile clients. The Classroom/Calendar integration lives in
// IntegrationHandler.
type GoogleOAuthHandler struct {
	cfg          *config.Config
	authSvc      *service.AuthService
	presence     *service.PresenceService
	tokenInfoURL string
	httpClient   *http.Client
}

func NewGoogleOAuthHandler(cfg *config.Config, authSvc *service.AuthService, presence *service.PresenceService) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		cfg:          cfg,
		authSvc:      authSvc,
		presence:     presence,
		tokenInfoURL: googleTokenInfo,
		httpClient:   http.DefaultClient,
	}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		RedirectURL:  h.cfg.OAuth.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

func (h *GoogleOAuthHandler) configured(c *gin.Context) bool {
	if h.cfg.OAuth.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in not configured"})
		return false
	}
	return true
}

// Redirect sends the browser to Google's consent screen.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	state := ulid.Make().String()
	c.SetCookie(googleStateCookie, state, 600, "/", "", h.cfg.IsProduction(), true)
	c.Redirect(http.StatusFound, h.OAuth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline))
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Callback exchanges the code, loads the Google profile, and signs the user in.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	code := c.Query("code")
	if code == "" {
		badRequest(c, "missing code")
		return
	}
	if want, err := c.Cookie(googleStateCookie); err != nil || want != c.Query("state") {
		badRequest(c, "invalid state")
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		badRequest(c, "exchange failed")
		return
	}
	resp, err := conf.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get user info"})
		return
	}
	defer resp.Body.Close()
	var info googleUserInfo
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&info) != nil || info.ID == "" {
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid user info"})
		return
	}
	h.signIn(c, info.ID, info.Email, info.Name, info.Picture)
}

type tokeninfoResponse struct {
	Sub     string `json:"sub"`
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Token accepts an ID token from a mobile Google sign-in and returns our JWTs.
func (h *GoogleOAuthHandler) Token(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "id_token required")
		return
	}
	httpReq, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, h.tokenInfoURL+"?id_token="+url.QueryEscape(req.IDToken), nil)
	if err != nil {
		writeError(c, err)
		return
	}
	resp, err := h.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("[auth] tokeninfo request failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "token verification failed"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid id_token", "detail": string(body)})
		return
	}
	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid token response"})
		return
	}
	if info.Sub == "" || info.Email == "" || info.Aud != h.cfg.OAuth.GoogleClientID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token payload"})
		return
	}
	h.signIn(c, info.Sub, info.Email, info.Name, info.Picture)
}

func (h *GoogleOAuthHandler) signIn(c *gin.Context, googleID, email, name, picture string) {
	u, pair, isNew, err := h.authSvc.LoginWithGoogle(c.Request.Context(), googleID, email, name, picture)
	if err != nil {
		writeError(c, err)
		return
	}
	_ = h.presence.Heartbeat(c.Request.Context(), u.ID, "")
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"is_new":        isNew,
	})
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classhub/config"
	"classhub/internal/database"
	"classhub/internal/domain"
	"classhub/internal/repository"
	"classhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSignInEngine(t *testing.T, aud string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	db, err := database.NewMemoryDB()
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	cfg := &config.Config{
		JWT:   config.JWTConfig{AccessSecret: "a", RefreshSecret: "r", AccessExpiry: time.Minute, RefreshExpiry: time.Hour, Issuer: "classhub"},
		OAuth: config.OAuthConfig{GoogleClientID: "web-client"},
	}
	info := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub": "g-1", "email": "Ana@Example.com", "aud": aud, "name": "Ana",
		})
	}))
	t.Cleanup(info.Close)

	h := NewGoogleOAuthHandler(cfg, service.NewAuthService(cfg, users),
		service.NewPresenceService(repository.NewPresenceRepository(db), users, domain.PresenceWindow))
	h.tokenInfoURL = info.URL
	h.httpClient = info.Client()
	r := gin.New()
	r.POST("/auth/google/token", h.Token)
	return r
}

func postToken(r *gin.Engine, token string) (int, map[string]interface{}) {
	body, _ := json.Marshal(map[string]string{"id_token": token})
	req := httptest.NewRequest(http.MethodPost, "/auth/google/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	out := map[string]interface{}{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func TestGoogleTokenSignIn(t *testing.T) {
	r := newSignInEngine(t, "web-client")

	code, _ := postToken(r, "bad")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := postToken(r, "good")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["is_new"])
	assert.NotEmpty(t, body["access_token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ana@example.com", user["email"])
	assert.Equal(t, domain.RoleStudent, user["role"])

	code, body = postToken(r, "good")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["is_new"])
}

func TestGoogleTokenWrongAudience(t *testing.T) {
	r := newSignInEngine(t, "someone-else")
	code, _ := postToken(r, "good")
	assert.Equal(t, http.StatusUnauthorized, code)
}

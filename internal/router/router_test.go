package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/tv-show-library/internal/config"
	"github.com/iliyamo/tv-show-library/internal/database"
	"github.com/iliyamo/tv-show-library/internal/handler"
	"github.com/iliyamo/tv-show-library/internal/logger"
	"github.com/iliyamo/tv-show-library/internal/omdb"
	"github.com/iliyamo/tv-show-library/internal/ratelimit"
	"github.com/iliyamo/tv-show-library/internal/repository"
	"github.com/iliyamo/tv-show-library/internal/service"
	"github.com/iliyamo/tv-show-library/internal/utils"
)

func newServer(t *testing.T, auth config.AuthConfig, rl config.RateLimitConfig, local *ratelimit.KeyedRateLimiter) *echo.Echo {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, config.DriverSQLite))

	log := logger.Discard()
	return New(Deps{
		DB:        db,
		Shows:     handler.NewShowHandler(repository.NewShowRepo(db), omdb.AcceptAll{}, service.NopPublisher{}, log),
		Auth:      handler.NewAuthHandler(auth),
		AuthCfg:   auth,
		Cache:     config.CacheConfig{Enabled: true},
		RateLimit: rl,
		Local:     local,
		Log:       log,
	})
}

func call(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const showBody = `{"title":"Breaking Bad","cover_image_url":"https://x/y.jpg","is_ended":true}`

func TestProbes(t *testing.T) {
	e := newServer(t, config.AuthConfig{}, config.RateLimitConfig{}, nil)
	rec := call(e, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/readyz", "", "").Code)
}

func TestOpenAPIWithoutAuth(t *testing.T) {
	e := newServer(t, config.AuthConfig{}, config.RateLimitConfig{}, nil)
	assert.Equal(t, http.StatusCreated, call(e, http.MethodPost, "/api/shows", showBody, "").Code)
	assert.Equal(t, http.StatusNotFound, call(e, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"x"}`, "").Code)
}

func TestAdminLoginGuardsWrites(t *testing.T) {
	hash, err := utils.HashPassword("letmein", bcrypt.MinCost)
	require.NoError(t, err)
	auth := config.AuthConfig{Secret: "s3cret", AdminUser: "admin", PasswordHash: hash, AccessTTLMin: 5}
	e := newServer(t, auth, config.RateLimitConfig{}, nil)

	// Reads stay public.
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/api/shows", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodPost, "/api/shows", showBody, "").Code)

	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodPost, "/api/auth/login", `{"username":"root","password":"letmein"}`, "").Code)
	assert.Equal(t, http.StatusBadRequest, call(e, http.MethodPost, "/api/auth/login", `{"username":""}`, "").Code)

	rec := call(e, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"letmein"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok struct {
		Token   string    `json:"token"`
		Expires time.Time `json:"expires"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.Token)
	assert.True(t, tok.Expires.After(time.Now()))

	rec = call(e, http.MethodPost, "/api/shows", showBody, tok.Token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct{ ID int64 }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	path := "/api/shows/" + strconv.FormatInt(created.ID, 10)
	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodDelete, path, "", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodDelete, path, "", tok.Token).Code)
}

func TestRateLimitedWithoutRedis(t *testing.T) {
	rl := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       3,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip",
		Prefix:         "tvshows:rl",
	}
	local := ratelimit.New(rl.RefillPerSecond(), rl.Capacity, 0)
	t.Cleanup(local.Stop)
	e := newServer(t, config.AuthConfig{}, rl, local)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, call(e, http.MethodGet, "/api/shows", "", "").Code)
	}
	rec := call(e, http.MethodGet, "/api/shows", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Probes are outside the limited group.
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/healthz", "", "").Code)
}

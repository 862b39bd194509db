package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/inventory-service/internal/access"
	"github.com/iliyamo/inventory-service/internal/apperr"
	"github.com/iliyamo/inventory-service/internal/config"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/repository"
	"github.com/iliyamo/inventory-service/internal/security"
)

type mockUserFinder map[string]*model.User

func (m mockUserFinder) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if u, ok := m[username]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func newGuard(t *testing.T) (*access.Guard, *security.TokenService) {
	t.Helper()
	tokens := security.NewTokenService(&config.AuthConfig{JWTSecret: "test-secret", AccessTTL: time.Minute})
	users := mockUserFinder{
		"alice": {ID: 1, Username: "alice", Role: model.RoleUser, IsActive: true},
		"root":  {ID: 2, Username: "root", Role: model.RoleAdmin, IsActive: true},
	}
	return access.NewGuard(tokens, users), tokens
}

func bearer(t *testing.T, tokens *security.TokenService, sub string) string {
	t.Helper()
	tok, err := tokens.Issue(sub)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func newContext(method, target, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func ok(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

func TestAuthenticate(t *testing.T) {
	guard, tokens := newGuard(t)

	tests := []struct {
		name          string
		authorization string
		wantErr       error
		wantReason    string
	}{
		{name: "no header", wantErr: apperr.ErrUnauthenticated, wantReason: access.ReasonMissingToken},
		{name: "wrong scheme", authorization: "Basic abc", wantErr: apperr.ErrUnauthenticated, wantReason: access.ReasonMissingToken},
		{name: "garbage token", authorization: "Bearer nope", wantErr: apperr.ErrUnauthenticated, wantReason: access.ReasonBadCredentials},
		{name: "unknown subject", authorization: bearer(t, tokens, "ghost"), wantErr: apperr.ErrUnauthenticated, wantReason: access.ReasonBadCredentials},
		{name: "valid", authorization: bearer(t, tokens, "alice")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/users/me", tt.authorization)
			err := Authenticate(guard)(ok)(c)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.wantReason, apperr.Message(err))
				assert.Nil(t, CurrentUser(c))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, rec.Code)
			require.NotNil(t, CurrentUser(c))
			assert.Equal(t, "alice", CurrentUser(c).Username)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	guard, tokens := newGuard(t)
	chain := func(next echo.HandlerFunc) echo.HandlerFunc {
		return Authenticate(guard)(RequireAdmin(guard)(next))
	}

	t.Run("admin passes", func(t *testing.T) {
		c, rec := newContext(http.MethodDelete, "/admin/delete-user/1", bearer(t, tokens, "root"))
		require.NoError(t, chain(ok)(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		c, _ := newContext(http.MethodDelete, "/admin/delete-user/1", bearer(t, tokens, "alice"))
		err := chain(ok)(c)
		assert.ErrorIs(t, err, apperr.ErrForbidden)
		assert.Equal(t, access.ReasonAdminRequired, apperr.Message(err))
	})

	t.Run("without authenticate", func(t *testing.T) {
		c, _ := newContext(http.MethodDelete, "/admin/delete-user/1", "")
		err := RequireAdmin(guard)(ok)(c)
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	})
}

func TestRequireRole_NoHierarchy(t *testing.T) {
	guard, tokens := newGuard(t)
	c, _ := newContext(http.MethodGet, "/", bearer(t, tokens, "root"))
	err := Authenticate(guard)(RequireRole(guard, model.RoleUser)(ok))(c)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, access.ReasonInsufficient, apperr.Message(err))
}

func TestRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/auth/login", "")
	c.SetPath("/auth/login")
	c.Request().RemoteAddr = "10.0.0.1:5555"

	cfg := config.RateLimitConfig{Prefix: "rl"}
	for strategy, want := range map[string]string{
		"ip":       "rl:ip:10.0.0.1",
		"user":     "rl:user:guest",
		"ip_route": "rl:ip:10.0.0.1:route:POST /auth/login",
		"":         "rl:ip:10.0.0.1:user:guest:route:POST /auth/login",
	} {
		cfg.KeyStrategy = strategy
		assert.Equal(t, want, rateKey(cfg, c), strategy)
	}
}

func TestDecodeBucket(t *testing.T) {
	res, ok := decodeBucket([]any{int64(0), int64(0), int64(1500)})
	require.True(t, ok)
	assert.False(t, res.allowed)
	assert.Equal(t, 1500*time.Millisecond, res.retry)

	res, ok = decodeBucket([]any{int64(1), "4", int64(0)})
	require.True(t, ok)
	assert.True(t, res.allowed)
	assert.Equal(t, int64(4), res.remaining)

	_, ok = decodeBucket("OK")
	assert.False(t, ok)
}

func TestDisabledRedisPassesThrough(t *testing.T) {
	rc := NewResponseCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, zap.NewNop())
	limiter := NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, zap.NewNop())

	c, rec := newContext(http.MethodGet, "/api/inventory", "")
	require.NoError(t, limiter(rc.Read()(rc.Invalidate()(ok)))(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, rc.Purge(context.Background()))
}

func TestCacheKey(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "inventory-cache"}
	a, _ := newContext(http.MethodGet, "/api/inventory/1", "")
	b, _ := newContext(http.MethodGet, "/api/inventory/2", "")
	a2, _ := newContext(http.MethodGet, "/api/inventory/1", "")

	assert.NotEqual(t, cacheKey(cfg, a), cacheKey(cfg, b))
	assert.Equal(t, cacheKey(cfg, a), cacheKey(cfg, a2))
	assert.Contains(t, cacheKey(cfg, a), "inventory-cache:")
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[]`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	guard, tokens := newGuard(t)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/users/me", ok, Authenticate(guard))

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, tokens, "alice"))
	e.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("HTTP request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/users/me", fields["path"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.Equal(t, "alice", fields["principal"])
}

func TestStoredHeader_DropsPerResponseHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	h.Set(echo.HeaderXRequestID, "req-1")
	h.Set("X-Cache", "MISS")
	h.Set(echo.HeaderContentLength, "2")

	bs, err := encodePayload(http.StatusOK, storedHeader(h), []byte(`[]`))
	require.NoError(t, err)
	_, replayed, _, ok := decodePayload(bs)
	require.True(t, ok)

	assert.Equal(t, echo.MIMEApplicationJSON, replayed.Get(echo.HeaderContentType))
	assert.Empty(t, replayed.Values(echo.HeaderXRequestID))
	assert.Empty(t, replayed.Values("X-Cache"))
	assert.Empty(t, replayed.Values(echo.HeaderContentLength))
	assert.Equal(t, "req-1", h.Get(echo.HeaderXRequestID), "source header is left untouched")
}

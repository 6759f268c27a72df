package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/flashdeck/internal/config"
)

func testManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	m := NewManager(config.AuthConfig{
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		CookieName:         "flashdeck_session",
		CookieMaxAge:       3600,
	}, "http://localhost:8080", store)
	return m, store
}

func requestWithCookie(sessionID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/decks", nil)
	r.AddCookie(&http.Cookie{Name: "flashdeck_session", Value: sessionID})
	return r
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("valid session", func(t *testing.T) {
		m, store := testManager(t)
		require.NoError(t, store.Put(ctx, "sid-1", testSession("user-1"), time.Hour))

		s := m.GetSession(requestWithCookie("sid-1"))
		require.NotNil(t, s)
		assert.Equal(t, "user-1", s.UserID)
	})

	t.Run("no cookie", func(t *testing.T) {
		m, _ := testManager(t)
		assert.Nil(t, m.GetSession(httptest.NewRequest(http.MethodGet, "/api/decks", nil)))
	})

	t.Run("unknown session id", func(t *testing.T) {
		m, _ := testManager(t)
		assert.Nil(t, m.GetSession(requestWithCookie("never-issued")))
	})

	t.Run("expired session is evicted", func(t *testing.T) {
		m, store := testManager(t)
		expired := testSession("user-1")
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, store.Put(ctx, "sid-old", expired, time.Hour))

		assert.Nil(t, m.GetSession(requestWithCookie("sid-old")))

		_, err := store.Get(ctx, "sid-old")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestHandleLogin(t *testing.T) {
	m, _ := testManager(t)

	w := httptest.NewRecorder()
	m.HandleLogin(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	resp := w.Result()
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "accounts.google.com")

	var stateCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "oauth_state" {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)
	assert.NotEmpty(t, stateCookie.Value)
	assert.True(t, stateCookie.HttpOnly)

	// The issued state must be in the redirect URL.
	assert.Contains(t, resp.Header.Get("Location"), "state=")
}

func TestHandleLogout(t *testing.T) {
	ctx := context.Background()
	m, store := testManager(t)
	require.NoError(t, store.Put(ctx, "sid-1", testSession("user-1"), time.Hour))

	w := httptest.NewRecorder()
	m.HandleLogout(w, requestWithCookie("sid-1"))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Result().StatusCode)
	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionContext(t *testing.T) {
	assert.Nil(t, SessionFromContext(context.Background()))

	s := testSession("user-1")
	ctx := ContextWithSession(context.Background(), s)
	assert.Equal(t, s, SessionFromContext(ctx))
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/flashdeck/internal/auth"
	"github.com/ignite/flashdeck/internal/config"
	"github.com/ignite/flashdeck/internal/domain"
	"github.com/ignite/flashdeck/internal/service/deck"
)

type fakeRepo struct {
	insertID  string
	insertErr error
	decks     []domain.Deck
	deck      *domain.Deck
	getErr    error
}

func (f *fakeRepo) Insert(_ context.Context, _, _, _ string, _ []domain.Card) (string, error) {
	return f.insertID, f.insertErr
}

func (f *fakeRepo) ListByOwner(_ context.Context, _ string) ([]domain.Deck, error) {
	return f.decks, nil
}

func (f *fakeRepo) GetByIDAndOwner(_ context.Context, _, _ string) (*domain.Deck, error) {
	return f.deck, f.getErr
}

type fakeGenerator struct {
	out *deck.Generated
	err error
}

func (f *fakeGenerator) GenerateDeck(_ context.Context, _ string) (*deck.Generated, error) {
	return f.out, f.err
}

func makeCards(n int) []domain.Card {
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{
			Front: fmt.Sprintf("Question %d", i+1),
			Back:  fmt.Sprintf("Answer %d", i+1),
		}
	}
	return cards
}

const testCookieName = "flashdeck_session"

// newTestServer wires a full router with a real auth manager over an
// in-process session store, seeded with one logged-in user.
func newTestServer(t *testing.T, repo deck.Repository, gen deck.Generator) http.Handler {
	t.Helper()

	store := auth.NewMemoryStore()
	manager := auth.NewManager(config.AuthConfig{
		CookieName:   testCookieName,
		CookieMaxAge: 3600,
	}, "http://localhost:8080", store)

	now := time.Now()
	err := store.Put(context.Background(), "sid-test", &auth.Session{
		UserID:    "user-1",
		Email:     "user@example.com",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}, time.Hour)
	require.NoError(t, err)

	h := NewHandlers(deck.NewService(repo, gen))
	return SetupRoutes(h, manager)
}

func doRequest(handler http.Handler, method, target, body string, authenticated bool) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if authenticated {
		r.AddCookie(&http.Cookie{Name: testCookieName, Value: "sid-test"})
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{})

	w := doRequest(handler, http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestAPIRequiresSession(t *testing.T) {
	handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{})

	for _, target := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/generate-deck"},
		{http.MethodGet, "/api/decks"},
		{http.MethodGet, "/api/decks/some-id"},
	} {
		t.Run(target.method+" "+target.path, func(t *testing.T) {
			w := doRequest(handler, target.method, target.path, `{"topic":"Go"}`, false)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", errorMessage(t, w))
		})
	}
}

func TestGenerateDeckEndpoint(t *testing.T) {
	validOut := &deck.Generated{
		Title: "Go Concurrency Essentials",
		Topic: "Go concurrency",
		Cards: makeCards(9),
	}

	t.Run("success", func(t *testing.T) {
		handler := newTestServer(t,
			&fakeRepo{insertID: "3f0c8a52-1b7e-4f39-9a6d-84a20e6f1b11"},
			&fakeGenerator{out: validOut})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":"Go concurrency"}`, true)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			DeckID    string `json:"deckId"`
			Title     string `json:"title"`
			CardCount int    `json:"cardCount"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "3f0c8a52-1b7e-4f39-9a6d-84a20e6f1b11", resp.DeckID)
		assert.Equal(t, "Go Concurrency Essentials", resp.Title)
		assert.Equal(t, 9, resp.CardCount)
	})

	t.Run("missing topic field", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{out: validOut})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Topic is required", errorMessage(t, w))
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{out: validOut})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Topic is required", errorMessage(t, w))
	})

	t.Run("non-string topic", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{out: validOut})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":42}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Topic is required", errorMessage(t, w))
	})

	t.Run("whitespace topic", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{out: validOut})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":"   "}`, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Topic cannot be empty", errorMessage(t, w))
	})

	t.Run("multibyte topic within limit", func(t *testing.T) {
		handler := newTestServer(t,
			&fakeRepo{insertID: "3f0c8a52-1b7e-4f39-9a6d-84a20e6f1b11"},
			&fakeGenerator{out: validOut})

		body := fmt.Sprintf(`{"topic":%q}`, strings.Repeat("é", 150))
		w := doRequest(handler, http.MethodPost, "/api/generate-deck", body, true)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized topic", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{out: validOut})

		body := fmt.Sprintf(`{"topic":%q}`, strings.Repeat("a", deck.MaxTopicLength+1))
		w := doRequest(handler, http.MethodPost, "/api/generate-deck", body, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Topic must be 200 characters or less", errorMessage(t, w))
	})

	t.Run("provider throttled", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{err: deck.ErrThrottled})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":"Go"}`, true)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "Rate limit exceeded. Please try again later.", errorMessage(t, w))
	})

	t.Run("provider unavailable", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{err: deck.ErrUpstream})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":"Go"}`, true)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "AI service error. Please try again.", errorMessage(t, w))
	})

	t.Run("invalid provider output", func(t *testing.T) {
		badOut := &deck.Generated{Title: "t", Topic: "t", Cards: makeCards(3)}
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{out: badOut})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":"Go"}`, true)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to generate flashcards", errorMessage(t, w))
	})

	t.Run("persistence failure", func(t *testing.T) {
		handler := newTestServer(t,
			&fakeRepo{insertErr: errors.New("pq: out of disk")},
			&fakeGenerator{out: validOut})

		w := doRequest(handler, http.MethodPost, "/api/generate-deck", `{"topic":"Go"}`, true)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to save deck", errorMessage(t, w))
	})
}

func TestListDecksEndpoint(t *testing.T) {
	t.Run("returns decks and total", func(t *testing.T) {
		decks := []domain.Deck{
			{ID: "d2", Title: "Newer", Topic: "B", Cards: makeCards(8), CreatedAt: time.Now()},
			{ID: "d1", Title: "Older", Topic: "A", Cards: makeCards(8), CreatedAt: time.Now().Add(-time.Hour)},
		}
		handler := newTestServer(t, &fakeRepo{decks: decks}, &fakeGenerator{})

		w := doRequest(handler, http.MethodGet, "/api/decks", "", true)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Decks []domain.Deck `json:"decks"`
			Total int           `json:"total"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Total)
		require.Len(t, resp.Decks, 2)
		assert.Equal(t, "d2", resp.Decks[0].ID)
	})

	t.Run("empty collection", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{}, &fakeGenerator{})

		w := doRequest(handler, http.MethodGet, "/api/decks", "", true)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"decks":[]`)
		assert.Contains(t, w.Body.String(), `"total":0`)
	})
}

func TestGetDeckEndpoint(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		d := &domain.Deck{ID: "d1", Title: "Go Basics", Topic: "Go", Cards: makeCards(8)}
		handler := newTestServer(t, &fakeRepo{deck: d}, &fakeGenerator{})

		w := doRequest(handler, http.MethodGet, "/api/decks/d1", "", true)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Deck
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "d1", got.ID)
		assert.Len(t, got.Cards, 8)
	})

	t.Run("not found", func(t *testing.T) {
		handler := newTestServer(t, &fakeRepo{getErr: deck.ErrNotFound}, &fakeGenerator{})

		w := doRequest(handler, http.MethodGet, "/api/decks/missing", "", true)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Deck not found", errorMessage(t, w))
	})
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/flashdeck/internal/auth"
	"github.com/ignite/flashdeck/internal/domain"
	"github.com/ignite/flashdeck/internal/pkg/httputil"
	"github.com/ignite/flashdeck/internal/pkg/logger"
	"github.com/ignite/flashdeck/internal/service/deck"
)

type generateDeckRequest struct {
	// Pointer so a missing field and a non-string field are both caught
	// before the service sees anything.
	Topic *string `json:"topic"`
}

// GenerateDeck runs the deck creation pipeline for the authenticated user.
// Every failure terminates the request with a distinct status so callers
// can tell "fix your input" from "try again later" from "our bug".
func (h *Handlers) GenerateDeck(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req generateDeckRequest
	if err := decodeBody(r, &req); err != nil || req.Topic == nil {
		h.respondCreateError(w, deck.ErrTopicRequired)
		return
	}

	result, err := h.decks.Create(r.Context(), session.UserID, *req.Topic)
	if err != nil {
		h.respondCreateError(w, err)
		return
	}

	httputil.OK(w, result)
}

// respondCreateError maps pipeline sentinels to the client-facing contract.
// Anything unrecognized is logged and reported generically; internals
// never reach the caller.
func (h *Handlers) respondCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deck.ErrTopicRequired):
		httputil.Error(w, http.StatusBadRequest, "Topic is required")
	case errors.Is(err, deck.ErrTopicEmpty):
		httputil.Error(w, http.StatusBadRequest, "Topic cannot be empty")
	case errors.Is(err, deck.ErrTopicTooLong):
		httputil.Error(w, http.StatusBadRequest, "Topic must be 200 characters or less")
	case errors.Is(err, deck.ErrThrottled):
		httputil.Error(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	case errors.Is(err, deck.ErrUpstream):
		httputil.Error(w, http.StatusBadGateway, "AI service error. Please try again.")
	case errors.Is(err, deck.ErrInvalidOutput):
		httputil.Error(w, http.StatusInternalServerError, "Failed to generate flashcards")
	case errors.Is(err, deck.ErrSaveFailed):
		httputil.Error(w, http.StatusInternalServerError, "Failed to save deck")
	default:
		logger.Error("generate-deck failed", "error", err.Error())
		httputil.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

type listDecksResponse struct {
	Decks []domain.Deck `json:"decks"`
	Total int           `json:"total"`
}

// ListDecks returns the caller's decks, newest first.
func (h *Handlers) ListDecks(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	decks := h.decks.List(r.Context(), session.UserID)
	httputil.OK(w, listDecksResponse{Decks: decks, Total: len(decks)})
}

// GetDeck returns one deck with its cards. A deck that doesn't exist and a
// deck owned by someone else are the same 404.
func (h *Handlers) GetDeck(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		httputil.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	d, err := h.decks.Get(r.Context(), id, session.UserID)
	if err != nil {
		if errors.Is(err, deck.ErrNotFound) {
			httputil.Error(w, http.StatusNotFound, "Deck not found")
			return
		}
		logger.Error("get deck failed", "error", err.Error())
		httputil.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	httputil.OK(w, d)
}

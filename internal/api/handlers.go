package api

import (
	"net/http"

	"github.com/ignite/flashdeck/internal/pkg/httputil"
	"github.com/ignite/flashdeck/internal/service/deck"
)

// Handlers holds the services the HTTP layer dispatches into.
type Handlers struct {
	decks *deck.Service
}

// NewHandlers creates the handler set.
func NewHandlers(decks *deck.Service) *Handlers {
	return &Handlers{decks: decks}
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}

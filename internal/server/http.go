package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/thraizz/realms-server-go/internal/game"
	"github.com/thraizz/realms-server-go/internal/game/rules"
	"github.com/thraizz/realms-server-go/internal/game/zone"
)

const requestTimeout = 10 * time.Second

type createMatchRequest struct {
	Players [2]SeatRequest `json:"players"`
}

type createMatchResponse struct {
	MatchID  string             `json:"match_id"`
	Snapshot game.MatchSnapshot `json:"snapshot"`
}

type actionRequest struct {
	Player string      `json:"player"`
	Action string      `json:"action"`
	Params game.Params `json:"params"`
}

type httpHandler struct {
	registry *Registry
	logger   *zap.Logger
}

// NewRouter builds the HTTP surface. hub may be nil to leave out /ws.
func NewRouter(registry *Registry, hub *Hub, logger *zap.Logger) http.Handler {
	h := &httpHandler{registry: registry, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "matches": len(registry.IDs())})
	})

	r.Route("/decks", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, registry.DeckNames())
		})
	})

	r.Route("/matches", func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Get("/", h.listMatches)
		r.Post("/", h.createMatch)
		r.Route("/{matchID}", func(r chi.Router) {
			r.Get("/", h.snapshot)
			r.Delete("/", h.removeMatch)
			r.Post("/actions", h.executeAction)
			r.Post("/pass", h.passPhase)
			r.Get("/players/{player}/gold", h.gold)
			r.Get("/players/{player}/life", h.life)
			r.Get("/players/{player}/zones/{zone}", h.zone)
		})
	})

	if hub != nil {
		r.Get("/ws", hub.ServeWS)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})
	return r
}

func (h *httpHandler) listMatches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.IDs())
}

func (h *httpHandler) createMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	m, err := h.registry.Create(req.Players[0], req.Players[1])
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, createMatchResponse{MatchID: m.ID(), Snapshot: m.Snapshot()})
}

func (h *httpHandler) snapshot(w http.ResponseWriter, r *http.Request) {
	m, ok := h.match(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.Snapshot())
}

func (h *httpHandler) removeMatch(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Remove(chi.URLParam(r, "matchID")) {
		writeError(w, http.StatusNotFound, ErrMatchNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *httpHandler) executeAction(w http.ResponseWriter, r *http.Request) {
	m, ok := h.match(w, r)
	if !ok {
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	action, err := rules.ParseActionType(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m.ExecuteAction(req.Player, action, req.Params))
}

func (h *httpHandler) passPhase(w http.ResponseWriter, r *http.Request) {
	m, ok := h.match(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.PassPhase())
}

func (h *httpHandler) gold(w http.ResponseWriter, r *http.Request) {
	m, ok := h.match(w, r)
	if !ok {
		return
	}
	gold, err := m.Gold(chi.URLParam(r, "player"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"gold": gold})
}

func (h *httpHandler) life(w http.ResponseWriter, r *http.Request) {
	m, ok := h.match(w, r)
	if !ok {
		return
	}
	life, err := m.Life(chi.URLParam(r, "player"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"life": life})
}

func (h *httpHandler) zone(w http.ResponseWriter, r *http.Request) {
	m, ok := h.match(w, r)
	if !ok {
		return
	}
	name, err := zone.ParseName(chi.URLParam(r, "zone"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	views, err := m.PublicCards(chi.URLParam(r, "player"), name)
	if errors.Is(err, game.ErrHiddenZone) {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *httpHandler) match(w http.ResponseWriter, r *http.Request) (*game.Match, bool) {
	m, err := h.registry.Get(chi.URLParam(r, "matchID"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrMatchNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return nil, false
	}
	return m, true
}

// requestLogger logs one line per request once the handler returns.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logger == nil {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

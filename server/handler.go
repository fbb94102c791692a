package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	contractx "github.com/caredesk/healthchat/assistant/contract"
)

// Orchestrator is the inbound surface the handler needs from the core.
type Orchestrator interface {
	Answer(ctx context.Context, query contractx.Query) contractx.Answer
	Status() map[string]contractx.ProviderStatus
}

type Handler struct {
	orchestrator Orchestrator
	shortcut     *StatsShortcut
}

func NewHandler(orchestrator Orchestrator, shortcut *StatsShortcut) *Handler {
	return &Handler{orchestrator: orchestrator, shortcut: shortcut}
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var query contractx.Query
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.respond(w, r, query)
}

// ChatQuery serves the GET variant for quick manual checks.
func (h *Handler) ChatQuery(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, contractx.Query{Text: r.URL.Query().Get("q")})
}

func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.orchestrator.Status())
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, query contractx.Query) {
	if err := query.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.shortcut != nil {
		if answer, ok := h.shortcut.TryAnswer(r.Context(), query); ok {
			writeJSON(w, http.StatusOK, answer)
			return
		}
	}

	answer := h.orchestrator.Answer(r.Context(), query)
	writeJSON(w, http.StatusOK, answer)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

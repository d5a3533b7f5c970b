package session

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itsmezubair/assistant/internal/model/chat"
	"github.com/itsmezubair/assistant/internal/store"
	"github.com/itsmezubair/assistant/pkg/utils"
)

// Handler exposes the session collection over HTTP.
type Handler struct {
	store store.Store
}

// New creates the session handler.
func New(st store.Store) *Handler {
	return &Handler{store: st}
}

// RegisterRoutes registers the session endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/sessions", h.handleList)
	r.Get("/session/{id}", h.handleGet)
	r.Put("/session/{id}", h.handlePut)
	r.Delete("/session/{id}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.List(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if summaries == nil {
		summaries = []chat.SessionSummary{}
	}
	utils.RespondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, ok, err := h.store.Get(r.Context(), id)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	if record.Messages == nil {
		record.Messages = []chat.Turn{}
	}
	utils.RespondJSON(w, http.StatusOK, record)
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var record chat.SessionRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if record.ID == "" {
		record.ID = id
	}
	if record.ID != id {
		utils.RespondError(w, http.StatusBadRequest, "session id mismatch")
		return
	}

	if err := h.store.Put(r.Context(), record); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to store session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

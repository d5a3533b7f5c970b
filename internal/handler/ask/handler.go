// Package ask serves the /ask exchange plus the new/clear resets. The reply
// wire shape follows the deployment's history mode: server-held history
// streams newline-delimited records, client-held history answers with one
// JSON object.
package ask

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/itsmezubair/assistant/internal/config"
	"github.com/itsmezubair/assistant/internal/model/chat"
	"github.com/itsmezubair/assistant/internal/store"
	"github.com/itsmezubair/assistant/pkg/utils"
)

// Generator produces assistant replies from history and a prompt.
type Generator interface {
	Generate(ctx context.Context, history []chat.Turn, query string) (string, error)
	Stream(ctx context.Context, history []chat.Turn, query string) (*schema.StreamReader[*schema.Message], error)
}

// Handler drives the ask exchange. In server-history mode it tracks the
// active session for the single-user deployment and persists each completed
// round through the store; in client-history mode it is stateless.
type Handler struct {
	gen           Generator
	store         store.Store
	serverHistory bool

	mu       sync.Mutex
	activeID string
}

// New creates the ask handler for the given history mode.
func New(gen Generator, st store.Store, mode config.HistoryMode) *Handler {
	return &Handler{
		gen:           gen,
		store:         st,
		serverHistory: mode == config.HistoryServer,
	}
}

// RegisterRoutes registers the ask and reset endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/ask", h.handleAsk)
	r.Post("/new", h.handleReset)
	r.Post("/clear", h.handleReset)
}

type askRequest struct {
	Prompt  string      `json:"prompt"`
	History []chat.Turn `json:"history"`
}

// streamRecord is one line of the streaming reply body.
type streamRecord struct {
	Chunk     string `json:"chunk,omitempty"`
	Done      bool   `json:"done,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var payload askRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prompt := strings.TrimSpace(payload.Prompt)
	if prompt == "" {
		utils.RespondError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	if !h.serverHistory {
		h.answerSingle(w, r, payload.History, prompt)
		return
	}
	h.answerStream(w, r, prompt)
}

// answerSingle serves client-held history deployments: the caller resends its
// prior turns, the reply is one JSON object and nothing is persisted here.
func (h *Handler) answerSingle(w http.ResponseWriter, r *http.Request, history []chat.Turn, prompt string) {
	reply, err := h.gen.Generate(r.Context(), history, prompt)
	if err != nil {
		log.Printf("[ask] generate failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "assistant unavailable")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// answerStream serves server-held history deployments: the reply streams as
// data records and the completed round is persisted before the done record.
func (h *Handler) answerStream(w http.ResponseWriter, r *http.Request, prompt string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	record, err := h.resolveSession(r.Context(), prompt)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	history := record.Messages

	utils.SetupSSEHeaders(w)

	stream, err := h.gen.Stream(r.Context(), history, prompt)
	if err != nil {
		log.Printf("[ask] stream failed: %v", err)
		utils.SendSSERecord(w, flusher, streamRecord{Error: "assistant unavailable"})
		return
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		chunk, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			// The round is not persisted; the client still gets a
			// terminal record.
			log.Printf("[ask] stream interrupted: %v", recvErr)
			utils.SendSSERecord(w, flusher, streamRecord{Error: "assistant interrupted"})
			return
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		reply.WriteString(chunk.Content)
		utils.SendSSERecord(w, flusher, streamRecord{Chunk: chunk.Content})
	}

	record.Messages = append(record.Messages,
		chat.Turn{Role: chat.RoleUser, Content: prompt},
		chat.Turn{Role: chat.RoleAssistant, Content: reply.String()},
	)
	if err := h.store.Put(r.Context(), record); err != nil {
		log.Printf("[ask] persist session %s: %v", record.ID, err)
	}

	h.mu.Lock()
	h.activeID = record.ID
	h.mu.Unlock()

	utils.SendSSERecord(w, flusher, streamRecord{Done: true, SessionID: record.ID})
}

// resolveSession continues the active session or starts a fresh record whose
// title derives from the first prompt.
func (h *Handler) resolveSession(ctx context.Context, prompt string) (chat.SessionRecord, error) {
	h.mu.Lock()
	activeID := h.activeID
	h.mu.Unlock()

	if activeID != "" {
		record, ok, err := h.store.Get(ctx, activeID)
		if err != nil {
			return chat.SessionRecord{}, err
		}
		if ok {
			return record, nil
		}
		// The active session was deleted out from under us; fall
		// through to a fresh one.
	}

	return chat.SessionRecord{
		ID:        uuid.NewString(),
		Title:     chat.DeriveTitle(prompt),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.activeID = ""
	h.mu.Unlock()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

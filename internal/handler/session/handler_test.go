package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itsmezubair/assistant/internal/model/chat"
	"github.com/itsmezubair/assistant/internal/store"
)

func setupRouter() (*chi.Mux, *store.MemoryStore) {
	st := store.NewMemoryStore()
	handler := New(st)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, st
}

func TestListEmptyReturnsArray(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.HasPrefix(strings.TrimSpace(resp.Body.String()), "[") {
		t.Fatalf("expected a JSON array, got %q", resp.Body.String())
	}

	var summaries []chat.SessionSummary
	if err := json.Unmarshal(resp.Body.Bytes(), &summaries); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected no summaries, got %d", len(summaries))
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	r, _ := setupRouter()

	record := chat.SessionRecord{
		ID:        "abc",
		Title:     "Hello",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Messages: []chat.Turn{
			{Role: chat.RoleUser, Content: "Hello"},
			{Role: chat.RoleAssistant, Content: "Hi there"},
		},
	}
	payload, _ := json.Marshal(record)

	req := httptest.NewRequest(http.MethodPut, "/session/abc", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/session/abc", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got chat.SessionRecord
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != "abc" || got.Title != "Hello" || len(got.Messages) != 2 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestGetMissingSessionIs404(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/session/missing", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	r, st := setupRouter()

	req := httptest.NewRequest(http.MethodDelete, "/session/never-created", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown id, got %d", resp.Code)
	}

	seedAndDelete := func() {
		err := st.Put(req.Context(), chat.SessionRecord{ID: "abc", Title: "x", CreatedAt: time.Now().UTC()})
		if err != nil {
			t.Fatalf("seed store: %v", err)
		}
		req := httptest.NewRequest(http.MethodDelete, "/session/abc", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.Code)
		}
	}
	seedAndDelete()

	req = httptest.NewRequest(http.MethodGet, "/session/abc", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}

func TestPutIDMismatchRejected(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(chat.SessionRecord{ID: "other"})
	req := httptest.NewRequest(http.MethodPut, "/session/abc", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

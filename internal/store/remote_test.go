package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itsmezubair/assistant/internal/model/chat"
	"github.com/itsmezubair/assistant/internal/store"
)

func TestRemoteStoreList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]chat.SessionSummary{
			{ID: "b", Title: "newer", CreatedAt: time.Now().UTC()},
			{ID: "a", Title: "older", CreatedAt: time.Now().UTC().Add(-time.Hour)},
		})
	}))
	defer srv.Close()

	summaries, err := store.NewRemoteStore(srv.URL, srv.Client()).List(context.Background())
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	if len(summaries) != 2 || summaries[0].ID != "b" {
		t.Fatalf("unexpected summaries: %+v", summaries)
	}
}

func TestRemoteStoreGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer srv.Close()

	_, ok, err := store.NewRemoteStore(srv.URL, srv.Client()).Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected 404 to be a normal outcome, got err: %v", err)
	}
	if ok {
		t.Fatal("expected not-found")
	}
}

func TestRemoteStorePutSendsRecord(t *testing.T) {
	var got chat.SessionRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/session/abc" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	record := chat.SessionRecord{
		ID:        "abc",
		Title:     "Hello",
		CreatedAt: time.Now().UTC(),
		Messages:  []chat.Turn{{Role: chat.RoleUser, Content: "Hello"}},
	}
	if err := store.NewRemoteStore(srv.URL, srv.Client()).Put(context.Background(), record); err != nil {
		t.Fatalf("Put err: %v", err)
	}
	if got.ID != "abc" || len(got.Messages) != 1 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRemoteStoreSurfacesServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	rs := store.NewRemoteStore(srv.URL, srv.Client())
	if _, err := rs.List(context.Background()); err == nil {
		t.Fatal("expected error for 500 on list")
	}
	if err := rs.Delete(context.Background(), "a"); err == nil {
		t.Fatal("expected error for 500 on delete")
	}
}

func TestRemoteStoreSurfacesNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if _, err := store.NewRemoteStore(srv.URL, nil).List(context.Background()); err == nil {
		t.Fatal("expected error when the server is unreachable")
	}
}

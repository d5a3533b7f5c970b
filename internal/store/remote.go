package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/itsmezubair/assistant/internal/model/chat"
)

// RemoteStore delegates session persistence to the assistant backend over its
// REST endpoints. Network and server failures surface as errors to the
// caller; a 404 on Get is the normal not-found outcome.
type RemoteStore struct {
	baseURL string
	client  *http.Client
}

// NewRemoteStore returns a store talking to the backend at baseURL. A nil
// client falls back to http.DefaultClient.
func NewRemoteStore(baseURL string, client *http.Client) *RemoteStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteStore{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// List fetches session summaries, ordered most-recent-first by the backend.
func (s *RemoteStore) List(ctx context.Context) ([]chat.SessionSummary, error) {
	resp, err := s.do(ctx, http.MethodGet, "/sessions", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list sessions: unexpected status %d", resp.StatusCode)
	}

	var summaries []chat.SessionSummary
	if err := json.NewDecoder(resp.Body).Decode(&summaries); err != nil {
		return nil, fmt.Errorf("decode session list: %w", err)
	}
	return summaries, nil
}

// Get fetches one record; a backend 404 reports not-found without error.
func (s *RemoteStore) Get(ctx context.Context, id string) (chat.SessionRecord, bool, error) {
	resp, err := s.do(ctx, http.MethodGet, "/session/"+id, nil)
	if err != nil {
		return chat.SessionRecord{}, false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return chat.SessionRecord{}, false, nil
	default:
		return chat.SessionRecord{}, false, fmt.Errorf("get session %s: unexpected status %d", id, resp.StatusCode)
	}

	var record chat.SessionRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return chat.SessionRecord{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return record, true, nil
}

// Put upserts the record on the backend.
func (s *RemoteStore) Put(ctx context.Context, record chat.SessionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", record.ID, err)
	}

	resp, err := s.do(ctx, http.MethodPut, "/session/"+record.ID, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("put session %s: unexpected status %d", record.ID, resp.StatusCode)
	}
	return nil
}

// Delete removes the record on the backend; the backend treats unknown ids as
// a successful no-op.
func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	resp, err := s.do(ctx, http.MethodDelete, "/session/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete session %s: unexpected status %d", id, resp.StatusCode)
	}
	return nil
}

func (s *RemoteStore) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/itsmezubair/assistant/internal/model/chat"
)

// Mode selects the wire shape of /ask replies.
type Mode int

const (
	// ModeStream expects newline-delimited data records.
	ModeStream Mode = iota
	// ModeSingle expects one JSON object carrying the full reply.
	ModeSingle
)

// Client performs exchanges with the assistant endpoint and feeds the reply
// body through the matching decoder. Transport errors and non-success
// statuses become a single failure event, so callers always observe a
// terminal event per Ask.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Mode    Mode
	// SendHistory resends the caller's prior turns with each request, for
	// deployments where the server holds no conversation state.
	SendHistory bool
}

type askRequest struct {
	Prompt  string      `json:"prompt"`
	History []chat.Turn `json:"history,omitempty"`
}

// Ask sends the prompt and streams reply events to emit in arrival order.
func (c *Client) Ask(ctx context.Context, prompt string, history []chat.Turn, emit func(Event)) {
	reqBody := askRequest{Prompt: prompt}
	if c.SendHistory {
		reqBody.History = history
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		emit(Event{Kind: EventFailure, Err: fmt.Errorf("encode ask request: %w", err)})
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/ask"), bytes.NewReader(payload))
	if err != nil {
		emit(Event{Kind: EventFailure, Err: fmt.Errorf("build ask request: %w", err)})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		emit(Event{Kind: EventFailure, Err: fmt.Errorf("ask: %w", err)})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		emit(Event{Kind: EventFailure, Err: fmt.Errorf("ask: unexpected status %d", resp.StatusCode)})
		return
	}

	if c.Mode == ModeSingle {
		Single(resp.Body, emit)
		return
	}
	Stream(resp.Body, emit)
}

// NewChat asks the backend to drop its active session association.
func (c *Client) NewChat(ctx context.Context) error {
	return c.post(ctx, "/new")
}

// Clear resets the backend conversation state, same as NewChat on the wire.
func (c *Client) Clear(ctx context.Context) error {
	return c.post(ctx, "/clear")
}

func (c *Client) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

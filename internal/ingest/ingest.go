// Package ingest turns an assistant reply transport into an ordered event
// sequence: zero or more text deltas followed by exactly one terminal event,
// either a completion carrying the full reply text or a failure.
package ingest

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strings"
)

// EventKind discriminates ingestion events.
type EventKind int

const (
	// EventDelta carries one incremental text fragment.
	EventDelta EventKind = iota
	// EventDone terminates a successful ingest with the accumulated text.
	EventDone
	// EventFailure terminates a failed ingest; no reply text is carried.
	EventFailure
)

// Event is one step of an ingestion. Done events carry the full accumulated
// reply and, when the backend assigned one, the authoritative session id.
type Event struct {
	Kind      EventKind
	Text      string
	SessionID string
	Err       error
}

// record mirrors the JSON payload of one streaming line.
type record struct {
	Chunk     string `json:"chunk"`
	Done      bool   `json:"done"`
	SessionID string `json:"session_id"`
	Error     string `json:"error"`
}

const linePrefix = "data: "

// ErrTruncatedStream reports a streaming body that ended without a done
// record.
var ErrTruncatedStream = errors.New("stream ended before completion record")

// Stream consumes a newline-delimited streaming body and emits events in
// arrival order. Lines without the expected prefix are ignored and individual
// malformed records are skipped, so foreign or corrupt lines never abort the
// response. Emit is always called with exactly one terminal event.
func Stream(body io.Reader, emit func(Event)) {
	var text strings.Builder

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, linePrefix) {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line[len(linePrefix):]), &rec); err != nil {
			log.Printf("[ingest] skipping malformed record: %v", err)
			continue
		}

		if rec.Error != "" {
			emit(Event{Kind: EventFailure, Err: errors.New(rec.Error)})
			return
		}
		if rec.Chunk != "" {
			text.WriteString(rec.Chunk)
			emit(Event{Kind: EventDelta, Text: rec.Chunk})
		}
		if rec.Done {
			emit(Event{Kind: EventDone, Text: text.String(), SessionID: rec.SessionID})
			return
		}
	}

	err := scanner.Err()
	if err == nil {
		err = ErrTruncatedStream
	}
	emit(Event{Kind: EventFailure, Err: err})
}

// Single consumes a single-shot reply body. The full text is delivered as one
// delta followed by the done event; no session id is carried on this wire
// shape.
func Single(body io.Reader, emit func(Event)) {
	var payload struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		emit(Event{Kind: EventFailure, Err: err})
		return
	}

	if payload.Response != "" {
		emit(Event{Kind: EventDelta, Text: payload.Response})
	}
	emit(Event{Kind: EventDone, Text: payload.Response})
}

// Package controller orchestrates the conversation state machine: it owns the
// history buffer and the active session, drives sends through the response
// ingestor, and keeps the session store in step with what the user sees.
package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itsmezubair/assistant/internal/ingest"
	"github.com/itsmezubair/assistant/internal/model/chat"
	"github.com/itsmezubair/assistant/internal/store"
)

var (
	// ErrSendInFlight rejects a send while another one is outstanding.
	ErrSendInFlight = errors.New("send already in flight")
	// ErrConfirmPending rejects a delete while a confirmation is open.
	ErrConfirmPending = errors.New("delete confirmation already pending")
)

// Renderer receives transcript updates. Within one send the user turn always
// arrives before any assistant content, deltas arrive in order, and exactly
// one of AssistantDone or ErrorTurn follows.
type Renderer interface {
	UserTurn(text string)
	AssistantDelta(text string)
	AssistantDone(text string)
	ErrorTurn(text string)
}

// Asker performs exchanges with the assistant endpoint.
type Asker interface {
	Ask(ctx context.Context, prompt string, history []chat.Turn, emit func(ingest.Event))
	NewChat(ctx context.Context) error
	Clear(ctx context.Context) error
}

// Confirmer gates session deletion behind a user decision. A dismissed
// prompt reports false, same as an explicit cancel.
type Confirmer interface {
	Confirm(ctx context.Context) bool
}

// Config wires a Controller. Renderer, Store and Asker are required; the
// sinks are optional.
type Config struct {
	Store    store.Store
	Asker    Asker
	Renderer Renderer
	Confirm  Confirmer
	// MintIDs generates session ids locally before the first send instead
	// of adopting the id returned by the backend.
	MintIDs bool
	// OnStatus observes the most recent network outcome.
	OnStatus func(connected bool)
	// OnSessions observes session list refreshes.
	OnSessions func([]chat.SessionSummary)
}

// session binds a conversation to the state it was started with. The gen
// field detects results that land after the active session has changed.
type session struct {
	id        string
	title     string
	createdAt time.Time
	gen       uint64
}

// Controller implements the send/open/delete lifecycle over a Store and an
// Asker. All state mutations happen under one mutex; Send blocks until the
// terminal event for its exchange has been handled.
type Controller struct {
	store      store.Store
	asker      Asker
	renderer   Renderer
	confirm    Confirmer
	mintIDs    bool
	onStatus   func(bool)
	onSessions func([]chat.SessionSummary)

	mu         sync.Mutex
	sess       *session
	history    History
	gen        uint64
	sending    bool
	confirming bool
}

// New assembles a Controller from the supplied wiring.
func New(cfg Config) *Controller {
	c := &Controller{
		store:      cfg.Store,
		asker:      cfg.Asker,
		renderer:   cfg.Renderer,
		confirm:    cfg.Confirm,
		mintIDs:    cfg.MintIDs,
		onStatus:   cfg.OnStatus,
		onSessions: cfg.OnSessions,
	}
	if c.onStatus == nil {
		c.onStatus = func(bool) {}
	}
	if c.onSessions == nil {
		c.onSessions = func([]chat.SessionSummary) {}
	}
	return c
}

// Send runs one exchange: the user turn is rendered and buffered
// optimistically, the reply is ingested delta by delta, and on completion the
// assistant turn is buffered, the record persisted and the session list
// refreshed. Empty input after trimming is a silent no-op. A failed exchange
// renders one error turn, flips the status sink to disconnected and leaves
// the record untouched; sending stays possible afterwards.
func (c *Controller) Send(ctx context.Context, input string) error {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return ErrSendInFlight
	}
	c.sending = true

	if c.sess == nil {
		c.gen++
		c.sess = &session{createdAt: time.Now().UTC(), gen: c.gen}
		if c.mintIDs {
			c.sess.id = uuid.NewString()
		}
		c.history.Reset()
	}
	if c.sess.title == "" {
		c.sess.title = chat.DeriveTitle(text)
	}
	sess := c.sess
	gen := sess.gen

	prior := c.history.Turns()
	c.history.Append(chat.Turn{Role: chat.RoleUser, Content: text})
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	c.renderer.UserTurn(text)

	var outcome ingest.Event
	terminal := false
	c.asker.Ask(ctx, text, prior, func(ev ingest.Event) {
		if terminal {
			return
		}
		switch ev.Kind {
		case ingest.EventDelta:
			if c.currentGen() == gen {
				c.renderer.AssistantDelta(ev.Text)
			}
		case ingest.EventDone, ingest.EventFailure:
			terminal = true
			outcome = ev
		}
	})
	if !terminal {
		outcome = ingest.Event{Kind: ingest.EventFailure, Err: ingest.ErrTruncatedStream}
	}

	if outcome.Kind == ingest.EventFailure {
		c.onStatus(false)
		if c.currentGen() == gen {
			c.renderer.ErrorTurn("Network / Server error")
		}
		log.Printf("[controller] send failed: %v", outcome.Err)
		return nil
	}

	c.mu.Lock()
	if c.gen != gen {
		// The user switched sessions while this send was in flight; the
		// result belongs to a conversation that is no longer active.
		c.mu.Unlock()
		c.onStatus(true)
		return nil
	}

	if outcome.SessionID != "" {
		sess.id = outcome.SessionID
	}
	c.history.Append(chat.Turn{Role: chat.RoleAssistant, Content: outcome.Text})
	record := chat.SessionRecord{
		ID:        sess.id,
		Title:     sess.title,
		CreatedAt: sess.createdAt,
		Messages:  c.history.Turns(),
	}
	c.mu.Unlock()

	c.onStatus(true)
	c.renderer.AssistantDone(outcome.Text)

	if err := c.store.Put(ctx, record); err != nil {
		log.Printf("[controller] persist session %s: %v", record.ID, err)
	}
	c.refreshSessions(ctx)
	return nil
}

// Open restores a stored session: the active session and history buffer are
// fully replaced and the stored turns are replayed to the renderer. An
// unknown id means nothing to restore and changes no state.
func (c *Controller) Open(ctx context.Context, id string) error {
	record, ok, err := c.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	c.mu.Lock()
	c.gen++
	c.sess = &session{id: record.ID, title: record.Title, createdAt: record.CreatedAt, gen: c.gen}
	c.history.Replace(record.Messages)
	c.mu.Unlock()

	for _, turn := range record.Messages {
		if turn.Role == chat.RoleUser {
			c.renderer.UserTurn(turn.Content)
		} else {
			c.renderer.AssistantDone(turn.Content)
		}
	}

	c.refreshSessions(ctx)
	return nil
}

// NewChat starts a fresh conversation: the backend drops its active
// association and the local session and history are discarded.
func (c *Controller) NewChat(ctx context.Context) error {
	if err := c.asker.NewChat(ctx); err != nil {
		log.Printf("[controller] new chat: %v", err)
	}
	c.resetActive()
	c.refreshSessions(ctx)
	return nil
}

// Clear resets the conversation, same lifecycle as NewChat.
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.asker.Clear(ctx); err != nil {
		log.Printf("[controller] clear chat: %v", err)
	}
	c.resetActive()
	c.refreshSessions(ctx)
	return nil
}

// Delete removes a stored session after the confirmer approves. Only one
// confirmation may be pending at a time. Deleting the active session clears
// the active pointer and history in the same step, so a stale transcript
// never survives its record.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.confirming {
		c.mu.Unlock()
		return ErrConfirmPending
	}
	c.confirming = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.confirming = false
		c.mu.Unlock()
	}()

	if c.confirm == nil || !c.confirm.Confirm(ctx) {
		return nil
	}

	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	if c.sess != nil && c.sess.id == id {
		c.gen++
		c.sess = nil
		c.history.Reset()
	}
	c.mu.Unlock()

	c.refreshSessions(ctx)
	return nil
}

// Sessions fetches the session list from the store.
func (c *Controller) Sessions(ctx context.Context) ([]chat.SessionSummary, error) {
	return c.store.List(ctx)
}

// ActiveSessionID reports the id of the active session, empty when no
// session is bound or the id has not been assigned yet.
func (c *Controller) ActiveSessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return ""
	}
	return c.sess.id
}

// History returns a copy of the active history buffer.
func (c *Controller) History() []chat.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Turns()
}

func (c *Controller) resetActive() {
	c.mu.Lock()
	c.gen++
	c.sess = nil
	c.history.Reset()
	c.mu.Unlock()
}

func (c *Controller) refreshSessions(ctx context.Context) {
	summaries, err := c.store.List(ctx)
	if err != nil {
		log.Printf("[controller] list sessions: %v", err)
		return
	}
	c.onSessions(summaries)
}

func (c *Controller) currentGen() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

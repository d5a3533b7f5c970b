package chat

import (
	"strings"
	"time"
)

// titleLimit keeps derived titles short enough for the session list.
const titleLimit = 40

// SessionRecord is a persisted conversation. The id is assigned exactly once
// at creation and never changes; the title is derived from the first user
// turn and is immutable afterwards.
type SessionRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	Messages  []Turn    `json:"messages"`
}

// SessionSummary is the listing view of a record.
type SessionSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary strips a record down to its listing fields.
func (r SessionRecord) Summary() SessionSummary {
	return SessionSummary{ID: r.ID, Title: r.Title, CreatedAt: r.CreatedAt}
}

// DeriveTitle builds a session title from the first user prompt, truncated to
// a list-friendly length.
func DeriveTitle(prompt string) string {
	title := strings.TrimSpace(prompt)
	if title == "" {
		return "Untitled"
	}
	runes := []rune(title)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit])
	}
	return title
}

package controller

import "github.com/itsmezubair/assistant/internal/model/chat"

// History is the in-memory working copy of the active session's turns. It is
// owned exclusively by the Controller and fully replaced whenever the active
// session changes.
type History struct {
	turns []chat.Turn
}

// Append adds one turn at the end of the buffer.
func (h *History) Append(turn chat.Turn) {
	h.turns = append(h.turns, turn)
}

// Turns returns a defensive copy of the buffer in conversation order.
func (h *History) Turns() []chat.Turn {
	return append([]chat.Turn(nil), h.turns...)
}

// Replace swaps the whole buffer for the supplied turns.
func (h *History) Replace(turns []chat.Turn) {
	h.turns = append([]chat.Turn(nil), turns...)
}

// Reset empties the buffer.
func (h *History) Reset() {
	h.turns = nil
}

// Len reports the number of buffered turns.
func (h *History) Len() int {
	return len(h.turns)
}

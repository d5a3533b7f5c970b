package chat

// Roles a turn can carry. Ordering of turns within a session is conversation
// order and is never rearranged.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation, tagged with the speaker role.
// Immutable once appended to a session.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

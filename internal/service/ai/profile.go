package ai

import "fmt"

// Profile describes the assistant identity presented to the model.
type Profile struct {
	Name         string
	customPrompt string
}

// NewProfile builds a profile. An empty systemPrompt selects the built-in
// default for the given name.
func NewProfile(name, systemPrompt string) Profile {
	if name == "" {
		name = "Assistant"
	}
	return Profile{Name: name, customPrompt: systemPrompt}
}

// SystemPrompt returns the system prompt sent with every exchange.
func (p Profile) SystemPrompt() string {
	if p.customPrompt != "" {
		return p.customPrompt
	}
	return fmt.Sprintf(
		"You are %s, a friendly and helpful AI assistant.\n\n"+
			"When someone asks who you are, introduce yourself by name and offer to help with "+
			"questions, writing, coding, planning, learning, or just conversation.\n\n"+
			"Keep replies warm, clear and concise. Answer in the language the user writes in.",
		p.Name,
	)
}

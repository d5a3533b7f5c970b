// Package ai drives the chat model behind the /ask endpoint through an eino
// prompt chain.
package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/itsmezubair/assistant/internal/config"
	"github.com/itsmezubair/assistant/internal/model/chat"
)

// historyLimit caps how many prior turns are replayed to the model.
const historyLimit = 20

// Service generates assistant replies from conversation history and a prompt.
type Service struct {
	chatModel model.ChatModel
	chain     compose.Runnable[map[string]any, *schema.Message]
	profile   Profile
}

// NewService compiles the prompt chain against the configured chat model.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		chain:     runnable,
		profile:   NewProfile(cfg.AssistantName, cfg.SystemPrompt),
	}, nil
}

// Generate runs one full exchange and returns the reply text.
func (s *Service) Generate(ctx context.Context, history []chat.Turn, query string) (string, error) {
	response, err := s.chain.Invoke(ctx, s.chainInput(history, query))
	if err != nil {
		return "", fmt.Errorf("run chat chain: %w", err)
	}
	return response.Content, nil
}

// Stream runs one exchange and returns the reply as a chunk stream.
func (s *Service) Stream(ctx context.Context, history []chat.Turn, query string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.chain.Stream(ctx, s.chainInput(history, query))
	if err != nil {
		return nil, fmt.Errorf("stream chat chain: %w", err)
	}
	return stream, nil
}

func (s *Service) chainInput(history []chat.Turn, query string) map[string]any {
	return map[string]any{
		"system":  s.profile.SystemPrompt(),
		"history": historyMessages(history),
		"query":   query,
	}
}

func historyMessages(turns []chat.Turn) []*schema.Message {
	if len(turns) == 0 {
		return nil
	}

	start := 0
	if len(turns) > historyLimit {
		start = len(turns) - historyLimit
	}

	history := make([]*schema.Message, 0, len(turns)-start)
	for _, turn := range turns[start:] {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Content, nil))
		}
	}
	return history
}

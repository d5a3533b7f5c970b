package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/itsmezubair/assistant/internal/model/chat"
)

// EchoGenerator is the deterministic fallback used when no model credentials
// are configured. It keeps every endpoint exercisable without an upstream
// model.
type EchoGenerator struct{}

// Generate returns the canned echo reply.
func (EchoGenerator) Generate(_ context.Context, _ []chat.Turn, query string) (string, error) {
	return echoReply(query), nil
}

// Stream delivers the echo reply word by word.
func (EchoGenerator) Stream(_ context.Context, _ []chat.Turn, query string) (*schema.StreamReader[*schema.Message], error) {
	reader, writer := schema.Pipe[*schema.Message](4)
	go func() {
		defer writer.Close()
		for _, word := range strings.SplitAfter(echoReply(query), " ") {
			if closed := writer.Send(schema.AssistantMessage(word, nil), nil); closed {
				return
			}
		}
	}()
	return reader, nil
}

func echoReply(query string) string {
	return fmt.Sprintf("No chat model is configured. You said: %s", query)
}

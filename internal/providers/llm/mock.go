package llm

import (
	"context"
	"strings"
)

const MockReply = "This is a mock response for local development. Your message was received. " +
	"Set LLM_MODE=remote to use the real model."

// Mock streams a fixed reply word by word without any network call.
type Mock struct {
	Reply string
}

func NewMock(reply string) *Mock {
	if reply == "" {
		reply = MockReply
	}
	return &Mock{Reply: reply}
}

func (m *Mock) Close() error { return nil }

func (m *Mock) StreamChat(ctx context.Context, _ string, _ []Message) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		words := strings.SplitAfter(m.Reply, " ")
		for _, w := range words {
			select {
			case out <- w:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return out, errs
}

package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string // RoleUser or RoleAssistant
	Content string
}

type Provider interface {
	// StreamChat streams the reply to msgs under the given system
	// instructions as incremental text chunks. errs carries at most one
	// error; both channels are closed when the stream ends.
	StreamChat(ctx context.Context, system string, msgs []Message) (chunks <-chan string, errs <-chan error)
	Close() error
}

// ErrNoKey means the provider has no credentials configured.
var ErrNoKey = errors.New("llm: api key is not set")

// StatusError is an upstream failure that carries an HTTP-like status.
type StatusError struct {
	Code int
	Msg  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: status %d: %s", e.Code, e.Msg)
}

// StatusOf returns the status of the first StatusError in err's chain, or 0.
func StatusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// Collect drains a stream into a single string.
func Collect(ctx context.Context, p Provider, system string, msgs []Message) (string, error) {
	chunks, errs := p.StreamChat(ctx, system, msgs)

	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	if err := <-errs; err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

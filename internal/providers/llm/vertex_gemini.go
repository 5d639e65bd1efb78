package llm

import (
	"context"
	"errors"
	"net/http"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type VertexGemini struct {
	client    *vertexgenai.Client
	modelName string
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &VertexGemini{client: c, modelName: modelName}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) StreamChat(ctx context.Context, system string, msgs []Message) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		if len(msgs) == 0 {
			errs <- errors.New("vertex: no messages")
			return
		}

		// The model handle carries per-call system instructions, so it is
		// built fresh for each stream.
		m := v.client.GenerativeModel(v.modelName)
		if system != "" {
			m.SystemInstruction = &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(system)}}
		}

		cs := m.StartChat()
		for _, msg := range msgs[:len(msgs)-1] {
			cs.History = append(cs.History, &vertexgenai.Content{
				Role:  vertexRole(msg.Role),
				Parts: []vertexgenai.Part{vertexgenai.Text(msg.Content)},
			})
		}

		last := msgs[len(msgs)-1]
		it := cs.SendMessageStream(ctx, vertexgenai.Text(last.Content))
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				errs <- vertexError(err)
				return
			}

			for _, cand := range resp.Candidates {
				if cand.Content == nil {
					continue
				}
				for _, part := range cand.Content.Parts {
					t, ok := part.(vertexgenai.Text)
					if !ok || string(t) == "" {
						continue
					}
					select {
					case out <- string(t):
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return out, errs
}

func vertexRole(role string) string {
	if role == RoleAssistant {
		return "model"
	}
	return "user"
}

func vertexError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return &StatusError{Code: http.StatusUnauthorized, Msg: st.Message()}
	case codes.PermissionDenied:
		return &StatusError{Code: http.StatusForbidden, Msg: st.Message()}
	case codes.ResourceExhausted:
		return &StatusError{Code: http.StatusTooManyRequests, Msg: st.Message()}
	}
	return err
}

package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoostory/internal/extract"
	"github.com/yoockh/yoostory/internal/models"
	"github.com/yoockh/yoostory/internal/prompt"
	"github.com/yoockh/yoostory/internal/providers/llm"
	"github.com/yoockh/yoostory/internal/utils"
)

type ExchangeRequest struct {
	SessionID     string               `json:"id"`
	Messages      []models.ChatMessage `json:"messages"`
	LifeStoryMode bool                 `json:"lifeStoryMode"`
}

// Check error codes reported by ChatService.Check.
const (
	CheckNoKey      = "NO_KEY"
	CheckInvalidKey = "INVALID_KEY"
	CheckForbidden  = "FORBIDDEN"
	CheckUnknown    = "UNKNOWN"
)

type CheckResult struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type ChatService interface {
	// Stream validates the request and starts the model reply. Setup
	// failures are returned directly; failures after the first chunk
	// arrive on errs. The transcript is recorded and the reply's records
	// merged only when the stream completes and ctx is still live.
	Stream(ctx context.Context, userID string, req ExchangeRequest) (chunks <-chan string, errs <-chan error, err error)
	Check(ctx context.Context) CheckResult
}

type chatService struct {
	sessions SessionService
	convos   ConversationService
	merge    MergeService
	notes    NotesService
	provider llm.Provider
	mock     bool
	log      *logrus.Logger
}

func NewChatService(
	sessions SessionService,
	convos ConversationService,
	merge MergeService,
	notes NotesService,
	provider llm.Provider,
	mock bool,
	log *logrus.Logger,
) ChatService {
	return &chatService{
		sessions: sessions,
		convos:   convos,
		merge:    merge,
		notes:    notes,
		provider: provider,
		mock:     mock,
		log:      log,
	}
}

func (s *chatService) Stream(ctx context.Context, userID string, req ExchangeRequest) (<-chan string, <-chan error, error) {
	const op = "ChatService.Stream"

	if userID == "" || req.SessionID == "" {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "user_id and session id are required", nil)
	}

	history := toProviderMessages(req.Messages)
	if len(history) == 0 {
		return nil, nil, utils.E(utils.CodeInvalidArgument, op, "at least one message is required", nil)
	}

	if _, err := s.sessions.GetOwned(ctx, userID, req.SessionID); err != nil {
		return nil, nil, err
	}
	if err := s.sessions.SetLifeStoryMode(ctx, req.SessionID, req.LifeStoryMode); err != nil {
		return nil, nil, err
	}

	missing, err := s.notes.Missing(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	system := prompt.Build(prompt.Options{LifeStoryMode: req.LifeStoryMode, Missing: missing})

	in, inErrs := s.provider.StreamChat(ctx, system, history)

	out := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		var reply strings.Builder
		for c := range in {
			reply.WriteString(c)
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
		if err := <-inErrs; err != nil {
			if ctx.Err() == nil {
				errs <- utils.E(utils.CodeUnavailable, op, "model stream failed", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		// The reply is complete; finish even if the client goes away now.
		if err := s.finish(context.WithoutCancel(ctx), userID, req, reply.String()); err != nil {
			errs <- err
		}
	}()

	return out, errs, nil
}

func (s *chatService) finish(ctx context.Context, userID string, req ExchangeRequest, reply string) error {
	if err := s.convos.RecordExchange(ctx, userID, req.SessionID, req.Messages, reply); err != nil {
		return err
	}

	res := s.merge.ApplyAll(ctx, userID, extract.Extract(reply))
	if res.Applied > 0 {
		s.notes.Invalidate(ctx, userID)
	}
	if res.Applied > 0 || res.Failed > 0 {
		s.log.WithFields(logrus.Fields{
			"user_id":    userID,
			"session_id": req.SessionID,
			"applied":    res.Applied,
			"failed":     res.Failed,
		}).Info("extracted records merged")
	}
	return nil
}

func (s *chatService) Check(ctx context.Context) CheckResult {
	if s.mock {
		return CheckResult{OK: true}
	}

	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	_, err := llm.Collect(ctx, s.provider, "", []llm.Message{{Role: llm.RoleUser, Content: "Hi"}})
	switch {
	case err == nil:
		return CheckResult{OK: true}
	case errors.Is(err, llm.ErrNoKey):
		return CheckResult{Error: CheckNoKey, Message: "The model API key is not set."}
	case llm.StatusOf(err) == http.StatusUnauthorized:
		return CheckResult{Error: CheckInvalidKey, Message: "Invalid API key. Check the configured model credentials."}
	case llm.StatusOf(err) == http.StatusForbidden:
		return CheckResult{Error: CheckForbidden, Message: "The API key doesn't have permission to use this model."}
	default:
		return CheckResult{Error: CheckUnknown, Message: err.Error()}
	}
}

// toProviderMessages keeps user and assistant messages with text content.
func toProviderMessages(msgs []models.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		text := m.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		switch m.Role {
		case models.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Content: text})
		case models.RoleAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: text})
		}
	}
	return out
}

package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/yoostory/internal/models"
	pgrepo "github.com/yoockh/yoostory/internal/repositories/postgres"
	"github.com/yoockh/yoostory/internal/utils"
	"gorm.io/datatypes"
)

type ConversationService interface {
	// RecordExchange rewrites the session transcript as messages followed
	// by the assistant reply.
	RecordExchange(ctx context.Context, userID, sessionID string, messages []models.ChatMessage, reply string) error
	ListBySession(ctx context.Context, sessionID string) ([]models.ConversationTurn, error)
}

type conversationService struct {
	convos pgrepo.ConversationRepo
	now    func() time.Time
}

func NewConversationService(convos pgrepo.ConversationRepo) ConversationService {
	return &conversationService{
		convos: convos,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *conversationService) RecordExchange(ctx context.Context, userID, sessionID string, messages []models.ChatMessage, reply string) error {
	const op = "ConversationService.RecordExchange"

	if userID == "" || sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and session_id are required", nil)
	}

	now := s.now()
	rows := make([]models.ConversationTurn, 0, len(messages)+1)
	add := func(role models.Role, content string, md models.TurnMetadata) {
		row := models.ConversationTurn{
			ID:        uuid.NewString(),
			SessionID: sessionID,
			UserID:    userID,
			Position:  len(rows),
			Role:      role,
			Content:   content,
			// distinct timestamps keep created_at ordering stable
			CreatedAt: now.Add(time.Duration(len(rows)) * time.Microsecond),
		}
		if md.MessageID != "" || len(md.IgnoredParts) > 0 {
			if b, err := json.Marshal(md); err == nil {
				row.Metadata = datatypes.JSON(b)
			}
		}
		rows = append(rows, row)
	}

	for _, m := range messages {
		content := m.Text()
		if strings.TrimSpace(content) == "" {
			continue
		}
		add(m.Role, content, models.TurnMetadata{MessageID: m.ID, IgnoredParts: ignoredParts(m)})
	}
	if strings.TrimSpace(reply) != "" {
		add(models.RoleAssistant, reply, models.TurnMetadata{})
	}

	if err := s.convos.ReplaceSession(ctx, sessionID, rows); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store transcript", err)
	}
	return nil
}

func (s *conversationService) ListBySession(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	const op = "ConversationService.ListBySession"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	rows, err := s.convos.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}
	return rows, nil
}

func ignoredParts(m models.ChatMessage) []string {
	var out []string
	for _, p := range m.Parts {
		if p.Type != models.PartText {
			out = append(out, p.Type)
		}
	}
	return out
}

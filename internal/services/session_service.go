package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoostory/internal/models"
	"github.com/yoockh/yoostory/internal/providers/llm"
	mongorepo "github.com/yoockh/yoostory/internal/repositories/mongo"
	"github.com/yoockh/yoostory/internal/utils"
)

const (
	MaxListedSessions = 50

	// FallbackSummary is stored when no model summary is available.
	FallbackSummary = "Session wrapped up. We captured what you shared. Come back anytime to add more."

	supersededSummary = "Session closed when a new one was started."

	summaryInstructions = "You are helping wrap up a resume-building chat session. Based on the conversation, " +
		"write a short, friendly session summary (2-4 sentences) that:\n" +
		"1. Summarizes what was captured in this session (e.g. jobs, projects, skills mentioned).\n" +
		"2. Gently notes what's still missing if anything (e.g. \"We didn't get to projects yet\" or \"Your profile summary is still light\").\n" +
		"3. Encourages the user to come back and continue when they're ready.\n" +
		"\n" +
		"Keep the tone warm and concise. Output only the summary text, no JSON."
)

type EndResult struct {
	Summary string   `json:"summary"`
	Missing []string `json:"missing"`
}

type SessionService interface {
	GetOrCreateActive(ctx context.Context, userID string) (*models.Session, error)
	// Start ends the user's active session, if any, and opens a new one.
	Start(ctx context.Context, userID string, lifeStory bool) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	GetOwned(ctx context.Context, userID, sessionID string) (*models.Session, error)
	List(ctx context.Context, userID string) ([]models.Session, error)
	End(ctx context.Context, userID, sessionID string) (*EndResult, error)
	Resume(ctx context.Context, userID, sessionID string) (*models.Session, error)
	SetLifeStoryMode(ctx context.Context, sessionID string, on bool) error
}

type sessionService struct {
	sessions mongorepo.SessionRepository
	convos   ConversationService
	notes    NotesService
	provider llm.Provider // nil in mock mode
	log      *logrus.Logger
	now      func() time.Time
}

func NewSessionService(
	sessions mongorepo.SessionRepository,
	convos ConversationService,
	notes NotesService,
	provider llm.Provider,
	log *logrus.Logger,
) SessionService {
	return &sessionService{
		sessions: sessions,
		convos:   convos,
		notes:    notes,
		provider: provider,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *sessionService) GetOrCreateActive(ctx context.Context, userID string) (*models.Session, error) {
	const op = "SessionService.GetOrCreateActive"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	active, err := s.sessions.FindActiveByUser(ctx, userID)
	if err == nil {
		return active, nil
	}
	if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to find active session", err)
	}

	created, err := s.create(ctx, userID, false)
	if errors.Is(err, utils.ErrConflict) {
		// lost the race to a concurrent create; use the winner
		active, err = s.sessions.FindActiveByUser(ctx, userID)
		if err != nil {
			return nil, utils.E(utils.CodeInternal, op, "failed to find active session", err)
		}
		return active, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}
	return created, nil
}

func (s *sessionService) Start(ctx context.Context, userID string, lifeStory bool) (*models.Session, error) {
	const op = "SessionService.Start"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	if err := s.endActive(ctx, userID, ""); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to close active session", err)
	}

	created, err := s.create(ctx, userID, lifeStory)
	if errors.Is(err, utils.ErrConflict) {
		return nil, utils.E(utils.CodeConflict, op, "another session was started concurrently", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create session", err)
	}
	return created, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	const op = "SessionService.Get"

	if sessionID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	out, err := s.sessions.GetBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get session", err)
	}
	return out, nil
}

// GetOwned reports sessions of other users as not found.
func (s *sessionService) GetOwned(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	const op = "SessionService.GetOwned"

	out, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if out.UserID != userID {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", utils.ErrNotFound)
	}
	return out, nil
}

func (s *sessionService) List(ctx context.Context, userID string) ([]models.Session, error) {
	const op = "SessionService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	out, err := s.sessions.ListByUser(ctx, userID, MaxListedSessions)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list sessions", err)
	}
	return out, nil
}

func (s *sessionService) End(ctx context.Context, userID, sessionID string) (*EndResult, error) {
	const op = "SessionService.End"

	ss, err := s.GetOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !ss.Active() {
		return nil, utils.E(utils.CodeConflict, op, "session already ended", models.ErrSessionNotActive)
	}

	missing, err := s.notes.Missing(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := s.summarize(ctx, ss, missing)
	if err := ss.End(s.now(), summary); err != nil {
		return nil, utils.E(utils.CodeConflict, op, "session already ended", err)
	}
	if err := s.sessions.Save(ctx, ss); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end session", err)
	}
	return &EndResult{Summary: summary, Missing: missing}, nil
}

func (s *sessionService) Resume(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	const op = "SessionService.Resume"

	ss, err := s.GetOwned(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if ss.Active() {
		return ss, nil
	}

	if err := s.endActive(ctx, userID, sessionID); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to close active session", err)
	}
	if err := ss.Resume(s.now()); err != nil {
		return nil, utils.E(utils.CodeConflict, op, "session is not ended", err)
	}
	if err := s.sessions.Save(ctx, ss); err != nil {
		if errors.Is(err, utils.ErrConflict) {
			return nil, utils.E(utils.CodeConflict, op, "another session became active", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to resume session", err)
	}
	return ss, nil
}

func (s *sessionService) SetLifeStoryMode(ctx context.Context, sessionID string, on bool) error {
	const op = "SessionService.SetLifeStoryMode"

	if sessionID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}
	if err := s.sessions.SetLifeStoryMode(ctx, sessionID, on, s.now()); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "session not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to set life story mode", err)
	}
	return nil
}

func (s *sessionService) create(ctx context.Context, userID string, lifeStory bool) (*models.Session, error) {
	now := s.now()
	ss := &models.Session{
		SessionID:     uuid.NewString(),
		UserID:        userID,
		Status:        models.SessionActive,
		LifeStoryMode: lifeStory,
		StartTime:     now,
		UpdatedAt:     now,
	}
	if err := s.sessions.Create(ctx, ss); err != nil {
		return nil, err
	}
	return ss, nil
}

// endActive closes the user's active session unless it is keep.
func (s *sessionService) endActive(ctx context.Context, userID, keep string) error {
	active, err := s.sessions.FindActiveByUser(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if active.SessionID == keep {
		return nil
	}
	if err := active.End(s.now(), supersededSummary); err != nil {
		return err
	}
	return s.sessions.Save(ctx, active)
}

func (s *sessionService) summarize(ctx context.Context, ss *models.Session, missing []string) string {
	if s.provider == nil {
		return FallbackSummary
	}
	l := s.log.WithFields(logrus.Fields{"user_id": ss.UserID, "session_id": ss.SessionID})

	turns, err := s.convos.ListBySession(ctx, ss.SessionID)
	if err != nil {
		l.WithError(err).Warn("transcript unavailable for summary")
		return FallbackSummary
	}

	var b strings.Builder
	b.WriteString("Conversation:\n")
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s: %s", t.Role, t.Content)
	}
	gaps := "None"
	if len(missing) > 0 {
		gaps = strings.Join(missing, "; ")
	}
	fmt.Fprintf(&b, "\n\nCurrent gaps: %s.\n\nWrite the session summary:", gaps)

	out, err := llm.Collect(ctx, s.provider, summaryInstructions, []llm.Message{{Role: llm.RoleUser, Content: b.String()}})
	if err != nil {
		l.WithError(err).Warn("summary generation failed")
		return FallbackSummary
	}
	if out = strings.TrimSpace(out); out == "" {
		return FallbackSummary
	}
	return out
}

package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

var (
	ErrSessionNotActive = errors.New("session is not active")
	ErrSessionNotEnded  = errors.New("session is not ended")
)

type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID string             `bson:"session_id" json:"id"` // uuid v4
	UserID    string             `bson:"user_id" json:"user_id"`

	Status        SessionStatus `bson:"status" json:"status"`
	LifeStoryMode bool          `bson:"life_story_mode" json:"life_story_mode"`
	Summary       *string       `bson:"summary,omitempty" json:"summary"`

	StartTime time.Time  `bson:"start_time" json:"start_time"`
	EndTime   *time.Time `bson:"end_time,omitempty" json:"end_time"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

func (s *Session) Active() bool { return s.Status == SessionActive }

// End moves an active session to ended.
func (s *Session) End(now time.Time, summary string) error {
	if s.Status != SessionActive {
		return ErrSessionNotActive
	}
	s.Status = SessionEnded
	s.EndTime = &now
	s.Summary = &summary
	s.UpdatedAt = now
	return nil
}

// Resume moves an ended session back to active and clears its summary.
func (s *Session) Resume(now time.Time) error {
	if s.Status != SessionEnded {
		return ErrSessionNotEnded
	}
	s.Status = SessionActive
	s.EndTime = nil
	s.Summary = nil
	s.UpdatedAt = now
	return nil
}

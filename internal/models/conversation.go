package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one stored message of a session transcript. The set
// for a session is rewritten as a whole after every exchange.
type ConversationTurn struct {
	ID        string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string         `gorm:"column:session_id;type:uuid;index:idx_conv_session_pos,priority:1" json:"session_id"`
	UserID    string         `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Position  int            `gorm:"column:position;not null;index:idx_conv_session_pos,priority:2" json:"position"`
	Role      Role           `gorm:"column:role;type:text;not null" json:"role"`
	Content   string         `gorm:"column:content;type:text;not null" json:"content"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ConversationTurn) TableName() string { return "conversations" }

// TurnMetadata is stored in ConversationTurn.Metadata.
type TurnMetadata struct {
	MessageID    string   `json:"message_id,omitempty"`
	IgnoredParts []string `json:"ignored_parts,omitempty"`
}

package postgres

import (
	"context"

	"github.com/yoockh/yoostory/internal/models"
	"gorm.io/gorm"
)

type ConversationRepo interface {
	// ReplaceSession deletes every stored turn of the session and inserts
	// rows in one transaction.
	ReplaceSession(ctx context.Context, sessionID string, rows []models.ConversationTurn) error
	ListBySession(ctx context.Context, sessionID string) ([]models.ConversationTurn, error)
}

type conversationRepo struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepo{db: db}
}

func (r *conversationRepo) ReplaceSession(ctx context.Context, sessionID string, rows []models.ConversationTurn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.ConversationTurn{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *conversationRepo) ListBySession(ctx context.Context, sessionID string) ([]models.ConversationTurn, error) {
	var rows []models.ConversationTurn
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&rows).Error
	return rows, err
}

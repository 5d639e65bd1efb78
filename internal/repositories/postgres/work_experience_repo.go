package postgres

import (
	"context"

	"github.com/yoockh/yoostory/internal/models"
	"gorm.io/gorm"
)

type WorkExperienceRepository interface {
	Insert(ctx context.Context, w *models.WorkExperience) error
	ListByUser(ctx context.Context, userID string) ([]models.WorkExperience, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type workExperienceRepo struct {
	db *gorm.DB
}

func NewWorkExperienceRepo(db *gorm.DB) WorkExperienceRepository {
	return &workExperienceRepo{db: db}
}

func (r *workExperienceRepo) Insert(ctx context.Context, w *models.WorkExperience) error {
	return r.db.WithContext(ctx).Create(w).Error
}

// ListByUser returns newest first.
func (r *workExperienceRepo) ListByUser(ctx context.Context, userID string) ([]models.WorkExperience, error) {
	var rows []models.WorkExperience
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *workExperienceRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.WorkExperience{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

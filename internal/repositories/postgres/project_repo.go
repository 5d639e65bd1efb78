package postgres

import (
	"context"

	"github.com/yoockh/yoostory/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	Insert(ctx context.Context, p *models.Project) error
	ListByUser(ctx context.Context, userID string) ([]models.Project, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Insert(ctx context.Context, p *models.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) ListByUser(ctx context.Context, userID string) ([]models.Project, error) {
	var rows []models.Project
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *projectRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

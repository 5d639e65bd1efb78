package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/yoockh/yoostory/internal/models"
	"github.com/yoockh/yoostory/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfilePatch holds the fields of one extracted profile record. Nil
// fields are left untouched; AddSkills is unioned into the stored set.
type ProfilePatch struct {
	Bio            *string
	CurrentJobRole *string
	CareerSummary  *string
	AddSkills      []string
	At             time.Time
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
	Merge(ctx context.Context, userID string, patch ProfilePatch) error
	Upsert(ctx context.Context, p *models.Profile) error
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

// Merge applies the patch to the user's row, creating it when missing.
// The read and the write share one transaction; on postgres the existing
// row is locked so concurrent merges for the same user serialize. When two
// merges both insert the first row, the primary key rejects the second and
// its error is returned.
func (r *profileRepo) Merge(ctx context.Context, userID string, patch ProfilePatch) error {
	at := patch.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Profile
		q := tx.Select("user_id", "skills").Where("user_id = ?", userID)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		err := q.Take(&current).Error
		exists := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if !exists {
			row := &models.Profile{
				UserID:         userID,
				Bio:            patch.Bio,
				CurrentJobRole: patch.CurrentJobRole,
				CareerSummary:  patch.CareerSummary,
				Skills:         pq.StringArray(models.UnionSkills(nil, patch.AddSkills)),
				CreatedAt:      at,
				UpdatedAt:      at,
			}
			return tx.Create(row).Error
		}

		updates := map[string]any{"updated_at": at}
		if patch.Bio != nil {
			updates["bio"] = *patch.Bio
		}
		if patch.CurrentJobRole != nil {
			updates["current_job_role"] = *patch.CurrentJobRole
		}
		if patch.CareerSummary != nil {
			updates["career_summary"] = *patch.CareerSummary
		}
		if len(patch.AddSkills) > 0 {
			updates["skills"] = pq.StringArray(models.UnionSkills(current.Skills, patch.AddSkills))
		}
		return tx.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(updates).Error
	})
}

// Upsert writes every editable profile field.
func (r *profileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	if p.Skills == nil {
		p.Skills = pq.StringArray{}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"bio", "current_job_role", "career_summary", "skills", "updated_at"}),
		}).
		Create(p).Error
}

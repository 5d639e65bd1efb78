package services

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoostory/internal/extract"
	"github.com/yoockh/yoostory/internal/models"
	pgrepo "github.com/yoockh/yoostory/internal/repositories/postgres"
	"github.com/yoockh/yoostory/internal/utils"
)

type MergeResult struct {
	Applied int
	Failed  int
}

type MergeService interface {
	Apply(ctx context.Context, userID string, rec extract.Record) error
	// ApplyAll applies records in order. Failures are logged and skipped.
	ApplyAll(ctx context.Context, userID string, recs iter.Seq[extract.Record]) MergeResult
}

type mergeService struct {
	profiles pgrepo.ProfileRepository
	work     pgrepo.WorkExperienceRepository
	projects pgrepo.ProjectRepository
	log      *logrus.Logger
	now      func() time.Time
}

func NewMergeService(profiles pgrepo.ProfileRepository, work pgrepo.WorkExperienceRepository, projects pgrepo.ProjectRepository, log *logrus.Logger) MergeService {
	return &mergeService{
		profiles: profiles,
		work:     work,
		projects: projects,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *mergeService) Apply(ctx context.Context, userID string, rec extract.Record) error {
	const op = "MergeService.Apply"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	now := s.now()
	var err error
	switch r := rec.(type) {
	case extract.Profile:
		err = s.profiles.Merge(ctx, userID, pgrepo.ProfilePatch{
			Bio:            r.Bio,
			CurrentJobRole: r.CurrentJobRole,
			CareerSummary:  r.CareerSummary,
			AddSkills:      r.Skills,
			At:             now,
		})
	case extract.WorkExperience:
		err = s.work.Insert(ctx, &models.WorkExperience{
			ID:               uuid.NewString(),
			UserID:           userID,
			Company:          r.Company,
			Role:             r.Role,
			StartDate:        r.StartDate,
			EndDate:          r.EndDate,
			Responsibilities: orEmpty(r.Responsibilities),
			Achievements:     orEmpty(r.Achievements),
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	case extract.Project:
		err = s.projects.Insert(ctx, &models.Project{
			ID:           uuid.NewString(),
			UserID:       userID,
			Title:        r.Title,
			Description:  r.Description,
			Impact:       r.Impact,
			Technologies: orEmpty(r.Technologies),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	default:
		return utils.E(utils.CodeInvalidArgument, op, fmt.Sprintf("unsupported record %T", rec), nil)
	}

	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store "+string(rec.Kind()), err)
	}
	return nil
}

func (s *mergeService) ApplyAll(ctx context.Context, userID string, recs iter.Seq[extract.Record]) MergeResult {
	var res MergeResult
	for rec := range recs {
		if err := s.Apply(ctx, userID, rec); err != nil {
			res.Failed++
			s.log.WithFields(logrus.Fields{
				"user_id": userID,
				"kind":    rec.Kind(),
			}).WithError(err).Warn("extracted record not stored")
			continue
		}
		res.Applied++
	}
	return res
}

func orEmpty(ss []string) pq.StringArray {
	if ss == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(ss)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/yoockh/yoostory/internal/models"
	pgrepo "github.com/yoockh/yoostory/internal/repositories/postgres"
	"github.com/yoockh/yoostory/internal/utils"
)

// ProfileUpdate replaces every editable profile field. Blank text clears
// the field.
type ProfileUpdate struct {
	Bio            *string  `json:"bio"`
	CurrentJobRole *string  `json:"current_job_role"`
	CareerSummary  *string  `json:"career_summary"`
	Skills         []string `json:"skills"`
}

type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*models.Profile, error)
	Update(ctx context.Context, userID string, in ProfileUpdate) (*models.Profile, error)
}

type profileService struct {
	profiles pgrepo.ProfileRepository
	notes    NotesService
}

func NewProfileService(profiles pgrepo.ProfileRepository, notes NotesService) ProfileService {
	return &profileService{profiles: profiles, notes: notes}
}

func (s *profileService) GetMe(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.GetMe"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get profile", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID string, in ProfileUpdate) (*models.Profile, error) {
	const op = "ProfileService.Update"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	now := time.Now().UTC()
	p := &models.Profile{
		UserID:         userID,
		Bio:            trimmedOrNil(in.Bio),
		CurrentJobRole: trimmedOrNil(in.CurrentJobRole),
		CareerSummary:  trimmedOrNil(in.CareerSummary),
		Skills:         pq.StringArray(models.UnionSkills(nil, in.Skills)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}

	s.notes.Invalidate(ctx, userID)

	stored, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to reload profile", err)
	}
	return stored, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/yoostory/internal/cache"
	"github.com/yoockh/yoostory/internal/models"
	pgrepo "github.com/yoockh/yoostory/internal/repositories/postgres"
	"github.com/yoockh/yoostory/internal/utils"
)

const (
	MissingProfile = "profile (bio, role, or skills)"
	MissingWork    = "work experience"
	MissingProject = "projects"
)

// Notes is everything captured for a user so far.
type Notes struct {
	Profile        *models.Profile         `json:"profile"`
	WorkExperience []models.WorkExperience `json:"work_experience"`
	Projects       []models.Project        `json:"projects"`
	Missing        []string                `json:"missing"`
}

type NotesService interface {
	// Missing lists the record categories with no data yet, in a fixed order.
	Missing(ctx context.Context, userID string) ([]string, error)
	Notes(ctx context.Context, userID string) (*Notes, error)
	// Invalidate drops the cached snapshot and notifies live subscribers.
	Invalidate(ctx context.Context, userID string)
}

type notesService struct {
	profiles pgrepo.ProfileRepository
	work     pgrepo.WorkExperienceRepository
	projects pgrepo.ProjectRepository
	cache    cache.Cache
	pub      cache.Publisher
	ttl      time.Duration
	log      *logrus.Logger
}

func NewNotesService(
	profiles pgrepo.ProfileRepository,
	work pgrepo.WorkExperienceRepository,
	projects pgrepo.ProjectRepository,
	c cache.Cache,
	pub cache.Publisher,
	ttl time.Duration,
	log *logrus.Logger,
) NotesService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &notesService{
		profiles: profiles,
		work:     work,
		projects: projects,
		cache:    c,
		pub:      pub,
		ttl:      ttl,
		log:      log,
	}
}

func (s *notesService) Missing(ctx context.Context, userID string) ([]string, error) {
	const op = "NotesService.Missing"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	nWork, err := s.work.CountByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count work experience", err)
	}
	nProjects, err := s.projects.CountByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count projects", err)
	}
	return missingLabels(profile, nWork, nProjects), nil
}

func (s *notesService) Notes(ctx context.Context, userID string) (*Notes, error) {
	const op = "NotesService.Notes"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	key := cache.NotesKey(userID)
	var cached Notes
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.WithField("user_id", userID).WithError(err).Warn("notes cache read failed")
	}
	if hit {
		return &cached, nil
	}

	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	work, err := s.work.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list work experience", err)
	}
	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list projects", err)
	}

	n := &Notes{
		Profile:        profile,
		WorkExperience: nonNil(work),
		Projects:       nonNil(projects),
		Missing:        missingLabels(profile, int64(len(work)), int64(len(projects))),
	}
	if err := s.cache.SetJSON(ctx, key, n, s.ttl); err != nil {
		s.log.WithField("user_id", userID).WithError(err).Warn("notes cache write failed")
	}
	return n, nil
}

func (s *notesService) Invalidate(ctx context.Context, userID string) {
	l := s.log.WithField("user_id", userID)
	if err := s.cache.Del(ctx, cache.NotesKey(userID)); err != nil {
		l.WithError(err).Warn("notes cache invalidate failed")
	}
	if err := s.pub.PublishJSON(ctx, cache.NotesChannel(userID), cache.NotesEvent{Type: cache.NotesUpdated}); err != nil {
		l.WithError(err).Warn("notes event publish failed")
	}
}

// profile returns nil when the user has no profile row yet.
func (s *notesService) profile(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func missingLabels(p *models.Profile, nWork, nProjects int64) []string {
	out := make([]string, 0, 3)
	if !p.HasContent() {
		out = append(out, MissingProfile)
	}
	if nWork == 0 {
		out = append(out, MissingWork)
	}
	if nProjects == 0 {
		out = append(out, MissingProject)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

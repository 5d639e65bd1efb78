package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/yoostory/internal/cache"
	"github.com/yoockh/yoostory/internal/extract"
	"github.com/yoockh/yoostory/internal/utils"
)

func TestNotes_MissingShrinksAsDataArrives(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	userID := uuid.NewString()

	missing, err := e.notes.Missing(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{MissingProfile, MissingWork, MissingProject}, missing)

	require.NoError(t, e.merge.Apply(ctx, userID, extract.Project{Title: "Widget"}))
	missing, err = e.notes.Missing(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{MissingProfile, MissingWork}, missing)

	require.NoError(t, e.merge.Apply(ctx, userID, extract.Profile{Skills: []string{"Go"}}))
	require.NoError(t, e.merge.Apply(ctx, userID, extract.WorkExperience{Company: "Acme", Role: "Eng"}))
	missing, err = e.notes.Missing(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestNotes_CachedUntilInvalidated(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	userID := uuid.NewString()

	n, err := e.notes.Notes(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, n.Profile)
	assert.Empty(t, n.Projects)

	require.NoError(t, e.merge.Apply(ctx, userID, extract.Project{Title: "Widget"}))

	n, err = e.notes.Notes(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, n.Projects, "served from cache")

	e.notes.Invalidate(ctx, userID)
	n, err = e.notes.Notes(ctx, userID)
	require.NoError(t, err)
	require.Len(t, n.Projects, 1)
	assert.Equal(t, []string{MissingProfile, MissingWork}, n.Missing)
	assert.Equal(t, []string{cache.NotesChannel(userID)}, e.cache.published)
}

func TestProfile_UpdateNormalizesAndInvalidates(t *testing.T) {
	e := newTestEnv(t, nil)
	ctx := context.Background()
	userID := uuid.NewString()
	svc := NewProfileService(e.profiles, e.notes)

	_, err := svc.GetMe(ctx, userID)
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	require.NoError(t, e.merge.Apply(ctx, userID, extract.Profile{Bio: strp("old"), Skills: []string{"Rust"}}))

	p, err := svc.Update(ctx, userID, ProfileUpdate{
		Bio:            strp("  "),
		CurrentJobRole: strp(" Staff Engineer "),
		Skills:         []string{" Go", "", "Go", "SQL "},
	})
	require.NoError(t, err)
	assert.Nil(t, p.Bio)
	assert.Equal(t, "Staff Engineer", *p.CurrentJobRole)
	assert.Equal(t, []string{"Go", "SQL"}, []string(p.Skills))
	assert.Equal(t, 1, e.cache.publishedCount())
}

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Transitions(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := &Session{Status: SessionActive, StartTime: now}

	require.NoError(t, s.End(now.Add(time.Hour), "wrapped up"))
	assert.Equal(t, SessionEnded, s.Status)
	require.NotNil(t, s.EndTime)
	assert.Equal(t, "wrapped up", *s.Summary)

	assert.ErrorIs(t, s.End(now, "again"), ErrSessionNotActive)

	require.NoError(t, s.Resume(now.Add(2*time.Hour)))
	assert.True(t, s.Active())
	assert.Nil(t, s.EndTime)
	assert.Nil(t, s.Summary)

	assert.ErrorIs(t, s.Resume(now), ErrSessionNotEnded)
}

func TestChatMessage_Text(t *testing.T) {
	m := ChatMessage{Role: RoleUser, Parts: []MessagePart{
		{Type: "text", Text: "Hello "},
		{Type: "file"},
		{Type: "text", Text: "world"},
	}}
	assert.Equal(t, "Hello world", m.Text())
}

func TestProfile_HasContent(t *testing.T) {
	var nilProfile *Profile
	assert.False(t, nilProfile.HasContent())

	empty := ""
	assert.False(t, (&Profile{Bio: &empty}).HasContent())
	assert.True(t, (&Profile{Skills: []string{"Go"}}).HasContent())
}

func TestUnionSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "Rust", "SQL"}, UnionSkills([]string{"Go", "Rust"}, []string{"Rust", "SQL"}))
	assert.Equal(t, []string{"Go"}, UnionSkills(nil, []string{"Go", "", "Go"}))
	assert.Equal(t, []string{}, UnionSkills(nil, nil))
	assert.Equal(t, []string{"Go"}, UnionSkills([]string{"Go"}, []string{" Go", "Go ", "  "}))
	assert.Equal(t, []string{"Go", "SQL"}, UnionSkills([]string{" Go"}, []string{"SQL\t"}))
	// case differences are distinct skills
	assert.Equal(t, []string{"go", "Go"}, UnionSkills([]string{"go"}, []string{"Go"}))
}

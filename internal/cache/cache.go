package cache

import (
	"context"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Publisher fans small JSON events out to live subscribers.
type Publisher interface {
	PublishJSON(ctx context.Context, channel string, val any) error
}

// Subscriber delivers raw payloads published on channel until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan string, error)
}

func NotesKey(userID string) string { return "notes:" + userID }

func NotesChannel(userID string) string { return "notes:" + userID + ":events" }

// NotesEvent is published on NotesChannel after a user's records change.
type NotesEvent struct {
	Type string `json:"type"`
}

const NotesUpdated = "notes_updated"

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/yoostory/internal/models"
	"github.com/yoockh/yoostory/internal/providers/llm"
	pgrepo "github.com/yoockh/yoostory/internal/repositories/postgres"
	"github.com/yoockh/yoostory/internal/utils"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, pgrepo.Migrate(db))
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memSessions mimics the Mongo collection including the partial unique
// index on the active session of a user.
type memSessions struct {
	mu   sync.Mutex
	byID map[string]models.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]models.Session{}}
}

func (m *memSessions) activeLocked(userID, except string) bool {
	for id, s := range m.byID {
		if id != except && s.UserID == userID && s.Status == models.SessionActive {
			return true
		}
	}
	return false
}

func (m *memSessions) Create(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.SessionID]; ok {
		return utils.ErrConflict
	}
	if s.Status == models.SessionActive && m.activeLocked(s.UserID, "") {
		return utils.ErrConflict
	}
	m.byID[s.SessionID] = *s
	return nil
}

func (m *memSessions) GetBySessionID(_ context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) FindActiveByUser(_ context.Context, userID string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byID {
		if s.UserID == userID && s.Status == models.SessionActive {
			return &s, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (m *memSessions) ListByUser(_ context.Context, userID string, limit int64) ([]models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Session{}
	for _, s := range m.byID {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memSessions) Save(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[s.SessionID]; !ok {
		return utils.ErrNotFound
	}
	if s.Status == models.SessionActive && m.activeLocked(s.UserID, s.SessionID) {
		return utils.ErrConflict
	}
	m.byID[s.SessionID] = *s
	return nil
}

func (m *memSessions) SetLifeStoryMode(_ context.Context, id string, on bool, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return utils.ErrNotFound
	}
	s.LifeStoryMode = on
	s.UpdatedAt = at
	m.byID[id] = s
	return nil
}

// memCache implements cache.Cache and cache.Publisher.
type memCache struct {
	mu        sync.Mutex
	entries   map[string][]byte
	published []string // channel names
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = b
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *memCache) PublishJSON(_ context.Context, channel string, _ any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, channel)
	return nil
}

func (c *memCache) publishedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.published)
}

// scriptedProvider replays fixed chunks, then err. If gate is set, it
// waits for gate to close before sending each chunk.
type scriptedProvider struct {
	chunks []string
	err    error
	gate   chan struct{}

	mu      sync.Mutex
	systems []string
	calls   [][]llm.Message
}

func (p *scriptedProvider) Close() error { return nil }

func (p *scriptedProvider) StreamChat(ctx context.Context, system string, msgs []llm.Message) (<-chan string, <-chan error) {
	p.mu.Lock()
	p.systems = append(p.systems, system)
	p.calls = append(p.calls, msgs)
	p.mu.Unlock()

	out := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errs)
		for _, c := range p.chunks {
			if p.gate != nil {
				select {
				case <-p.gate:
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
			select {
			case out <- c:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if p.err != nil {
			errs <- p.err
		}
	}()
	return out, errs
}

func (p *scriptedProvider) lastSystem() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.systems) == 0 {
		return ""
	}
	return p.systems[len(p.systems)-1]
}

// testEnv wires the services over sqlite and in-memory fakes.
type testEnv struct {
	db       *gorm.DB
	profiles pgrepo.ProfileRepository
	work     pgrepo.WorkExperienceRepository
	projects pgrepo.ProjectRepository
	convoRep pgrepo.ConversationRepo
	sessRepo *memSessions
	cache    *memCache

	notes    NotesService
	merge    MergeService
	convos   ConversationService
	sessions SessionService
}

func newTestEnv(t *testing.T, summarizer llm.Provider) *testEnv {
	t.Helper()
	db := openTestDB(t)
	log := quietLogger()

	e := &testEnv{
		db:       db,
		profiles: pgrepo.NewProfileRepo(db),
		work:     pgrepo.NewWorkExperienceRepo(db),
		projects: pgrepo.NewProjectRepo(db),
		convoRep: pgrepo.NewConversationRepo(db),
		sessRepo: newMemSessions(),
		cache:    newMemCache(),
	}
	e.notes = NewNotesService(e.profiles, e.work, e.projects, e.cache, e.cache, time.Minute, log)
	e.merge = NewMergeService(e.profiles, e.work, e.projects, log)
	e.convos = NewConversationService(e.convoRep)
	e.sessions = NewSessionService(e.sessRepo, e.convos, e.notes, summarizer, log)
	return e
}

func (e *testEnv) chat(p llm.Provider) ChatService {
	return NewChatService(e.sessions, e.convos, e.merge, e.notes, p, false, quietLogger())
}

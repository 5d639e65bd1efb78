package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/yoostory/internal/models"
	"github.com/yoockh/yoostory/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SessionsCollection = "sessions"

type SessionRepository interface {
	// Create inserts a session. A second active session for the same user
	// violates the partial unique index and returns utils.ErrConflict.
	Create(ctx context.Context, s *models.Session) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.Session, error)
	FindActiveByUser(ctx context.Context, userID string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.Session, error)
	// Save replaces the mutable state of an existing session.
	Save(ctx context.Context, s *models.Session) error
	SetLifeStoryMode(ctx context.Context, sessionID string, on bool, at time.Time) error
}

type sessionRepo struct {
	col *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepository {
	return &sessionRepo{col: db.Collection(SessionsCollection)}
}

func (r *sessionRepo) Create(ctx context.Context, s *models.Session) error {
	if s.StartTime.IsZero() {
		s.StartTime = time.Now().UTC()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = s.StartTime
	}
	_, err := r.col.InsertOne(ctx, s)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrConflict
	}
	return err
}

func (r *sessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"session_id": sessionID})
}

func (r *sessionRepo) FindActiveByUser(ctx context.Context, userID string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "status": models.SessionActive})
}

func (r *sessionRepo) findOne(ctx context.Context, filter bson.M) (*models.Session, error) {
	var s models.Session
	err := r.col.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Session, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Session, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) Save(ctx context.Context, s *models.Session) error {
	set := bson.M{
		"status":          s.Status,
		"life_story_mode": s.LifeStoryMode,
		"updated_at":      s.UpdatedAt.UTC(),
	}
	unset := bson.M{}
	if s.Summary != nil {
		set["summary"] = *s.Summary
	} else {
		unset["summary"] = ""
	}
	if s.EndTime != nil {
		set["end_time"] = s.EndTime.UTC()
	} else {
		unset["end_time"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"session_id": s.SessionID}, update)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrConflict
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) SetLifeStoryMode(ctx context.Context, sessionID string, on bool, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"life_story_mode": on, "updated_at": at.UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

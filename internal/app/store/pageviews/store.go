// internal/app/store/pageviews/store.go
package pageviewstore

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/pagepulse/internal/app/system/indexes"
	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/dalemusser/pagepulse/internal/app/system/normalize"
	"github.com/dalemusser/pagepulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("page_views")}
}

// EnsureIndexes creates the per-project index used for counts and retention.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_page_views_project_created"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_page_views_created"),
		},
	})
}

// Hit is one page view as reported by a tracked page.
type Hit struct {
	Path      string
	Referrer  string
	UserAgent string
}

// Record stores a page view for projectID.
func (s *Store) Record(ctx context.Context, projectID primitive.ObjectID, h Hit) (models.PageView, error) {
	pv := models.PageView{
		ID:        primitive.NewObjectID(),
		ProjectID: projectID,
		Path:      truncate(normalize.Path(h.Path), limits.MaxPathLen),
		Referrer:  truncate(h.Referrer, limits.MaxReferrerLen),
		UserAgent: truncate(h.UserAgent, limits.MaxUserAgentLen),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, pv); err != nil {
		return models.PageView{}, err
	}
	return pv, nil
}

// CountByProject returns the number of page views recorded for projectID.
func (s *Store) CountByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"project_id": projectID})
}

// DeleteByProject removes every page view of projectID.
func (s *Store) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"project_id": projectID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteOlderThan removes page views recorded before cutoff.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff.UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// truncate caps s at max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// internal/app/store/projects/store.go
package projectstore

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/pagepulse/internal/app/system/htmlsanitize"
	"github.com/dalemusser/pagepulse/internal/app/system/indexes"
	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/dalemusser/pagepulse/internal/app/system/normalize"
	"github.com/dalemusser/pagepulse/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when a project does not exist or is not owned by the caller.
	ErrNotFound = errors.New("project not found")
	// ErrInvalidName is returned when the name is empty after sanitizing.
	ErrInvalidName = errors.New("project name is required")
	// ErrNameTooLong is returned when the name exceeds limits.MaxProjectNameLen.
	ErrNameTooLong = fmt.Errorf("project name must be at most %d characters", limits.MaxProjectNameLen)
	// ErrDomainTooLong is returned when the normalized domain exceeds limits.MaxDomainLen.
	ErrDomainTooLong = fmt.Errorf("domain must be at most %d characters", limits.MaxDomainLen)
)

type Store struct {
	c     *mongo.Collection
	views *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("projects"),
		views: db.Collection("page_views"),
	}
}

// EnsureIndexes creates the owner listing index and the unique tracking key index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	return indexes.EnsureSet(ctx, s.c, []mongo.IndexModel{
		{
			// dashboard: owner's projects, newest first
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_projects_owner_created"),
		},
		{
			Keys:    bson.D{{Key: "tracking_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_projects_tracking_key"),
		},
	})
}

// Create inserts a project for ownerID. The name is reduced to plain text
// and the domain to a bare host; a fresh tracking key is assigned.
func (s *Store) Create(ctx context.Context, ownerID primitive.ObjectID, name, domain string) (models.Project, error) {
	name = normalize.Name(htmlsanitize.PlainText(name))
	if name == "" {
		return models.Project{}, ErrInvalidName
	}
	if utf8.RuneCountInString(name) > limits.MaxProjectNameLen {
		return models.Project{}, ErrNameTooLong
	}
	domain = normalize.Domain(domain)
	if utf8.RuneCountInString(domain) > limits.MaxDomainLen {
		return models.Project{}, ErrDomainTooLong
	}

	now := time.Now().UTC()
	p := models.Project{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Name:        name,
		Domain:      domain,
		TrackingKey: uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// GetByTrackingKey loads the project a collector beacon reports to.
func (s *Store) GetByTrackingKey(ctx context.Context, key string) (*models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"tracking_key": key}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOwned loads a project only if ownerID owns it.
func (s *Store) GetOwned(ctx context.Context, ownerID, id primitive.ObjectID) (*models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes an owned project and its page views.
func (s *Store) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := s.views.DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		return fmt.Errorf("delete page views: %w", err)
	}
	return nil
}

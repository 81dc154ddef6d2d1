package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/pagepulse/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts an active password user. The password hash is left
// empty; use the users store when a test needs to authenticate.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Email:      email,
		AuthMethod: models.AuthPassword,
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateDisabledUser inserts a user whose status is disabled.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, name, email)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		bson.M{"$set": bson.M{"status": models.StatusDisabled}}); err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	u.Status = models.StatusDisabled
	return u
}

// CreateProject inserts a project owned by ownerID. createdAt controls
// ordering in dashboard queries.
func (f *Fixtures) CreateProject(ctx context.Context, ownerID primitive.ObjectID, name string, createdAt time.Time) models.Project {
	f.t.Helper()

	p := models.Project{
		ID:          primitive.NewObjectID(),
		OwnerID:     ownerID,
		Name:        name,
		Domain:      "example.com",
		TrackingKey: uuid.NewString(),
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}

	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// RecordViews inserts n page views for projectID.
func (f *Fixtures) RecordViews(ctx context.Context, projectID primitive.ObjectID, n int) {
	f.t.Helper()
	if n <= 0 {
		return
	}

	now := time.Now().UTC()
	docs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, models.PageView{
			ID:        primitive.NewObjectID(),
			ProjectID: projectID,
			Path:      "/",
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	if _, err := f.db.Collection("page_views").InsertMany(ctx, docs); err != nil {
		f.t.Fatalf("failed to record test page views: %v", err)
	}
}

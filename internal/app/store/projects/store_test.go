package projectstore_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	projectstore "github.com/dalemusser/pagepulse/internal/app/store/projects"
	"github.com/dalemusser/pagepulse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*projectstore.Store, *mongo.Database, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	store := projectstore.New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	return store, db, ctx
}

func TestStore_Create(t *testing.T) {
	store, _, ctx := setup(t)
	owner := primitive.NewObjectID()

	p, err := store.Create(ctx, owner, "  My <b>Blog</b> ", "https://WWW.Example.com/about")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name != "My Blog" {
		t.Errorf("Name: got %q, want %q", p.Name, "My Blog")
	}
	if p.Domain != "example.com" {
		t.Errorf("Domain: got %q, want %q", p.Domain, "example.com")
	}
	if p.TrackingKey == "" {
		t.Error("expected tracking key")
	}
	if p.OwnerID != owner {
		t.Errorf("OwnerID: got %v, want %v", p.OwnerID, owner)
	}

	got, err := store.GetByTrackingKey(ctx, p.TrackingKey)
	if err != nil {
		t.Fatalf("GetByTrackingKey failed: %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("GetByTrackingKey ID: got %v, want %v", got.ID, p.ID)
	}
}

func TestStore_Create_InvalidName(t *testing.T) {
	store, _, ctx := setup(t)
	owner := primitive.NewObjectID()

	if _, err := store.Create(ctx, owner, "  <script>x</script> ", ""); !errors.Is(err, projectstore.ErrInvalidName) {
		t.Errorf("script-only name: got %v, want ErrInvalidName", err)
	}
	if _, err := store.Create(ctx, owner, strings.Repeat("a", 81), ""); !errors.Is(err, projectstore.ErrNameTooLong) {
		t.Errorf("long name: got %v, want ErrNameTooLong", err)
	}
	if _, err := store.Create(ctx, owner, "Site", strings.Repeat("a", 250)+".com"); !errors.Is(err, projectstore.ErrDomainTooLong) {
		t.Errorf("long domain: got %v, want ErrDomainTooLong", err)
	}
}

func TestStore_GetByTrackingKey_NotFound(t *testing.T) {
	store, _, ctx := setup(t)

	if _, err := store.GetByTrackingKey(ctx, "missing"); !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("GetByTrackingKey: got %v, want ErrNotFound", err)
	}
}

func TestStore_GetOwned(t *testing.T) {
	store, _, ctx := setup(t)
	owner := primitive.NewObjectID()

	p, err := store.Create(ctx, owner, "Site", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.GetOwned(ctx, owner, p.ID); err != nil {
		t.Errorf("GetOwned by owner: %v", err)
	}
	if _, err := store.GetOwned(ctx, primitive.NewObjectID(), p.ID); !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("GetOwned by stranger: got %v, want ErrNotFound", err)
	}
}

func TestStore_Delete_CascadesPageViews(t *testing.T) {
	store, db, ctx := setup(t)
	owner := primitive.NewObjectID()
	fx := testutil.NewFixtures(t, db)

	p, err := store.Create(ctx, owner, "Site", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	fx.RecordViews(ctx, p.ID, 3)

	if err := store.Delete(ctx, primitive.NewObjectID(), p.ID); !errors.Is(err, projectstore.ErrNotFound) {
		t.Fatalf("Delete by stranger: got %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, owner, p.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	n, err := db.Collection("page_views").CountDocuments(ctx, bson.M{"project_id": p.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 0 {
		t.Errorf("page views after delete: got %d, want 0", n)
	}
	if err := store.Delete(ctx, owner, p.ID); !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

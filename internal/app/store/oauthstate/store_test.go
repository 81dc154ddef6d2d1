package oauthstate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/store/oauthstate"
	"github.com/dalemusser/pagepulse/internal/testutil"
)

func TestNewToken(t *testing.T) {
	a, err := oauthstate.NewToken()
	if err != nil {
		t.Fatalf("NewToken failed: %v", err)
	}
	b, _ := oauthstate.NewToken()
	if a == "" || a == b {
		t.Errorf("tokens: got %q and %q, want distinct non-empty values", a, b)
	}
}

func TestStore_Validate_OneTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	if err := store.Save(ctx, "state-1", "/dashboard", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ret, ok, err := store.Validate(ctx, "state-1")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !ok {
		t.Fatal("expected state to be valid")
	}
	if ret != "/dashboard" {
		t.Errorf("returnURL: got %q, want %q", ret, "/dashboard")
	}

	if _, ok, _ := store.Validate(ctx, "state-1"); ok {
		t.Error("state validated twice")
	}
}

func TestStore_Validate_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "old", "", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, err := store.Validate(ctx, "old"); err != nil || ok {
		t.Errorf("Validate expired: got ok=%v err=%v, want false, nil", ok, err)
	}

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CleanupExpired: got %d, want 1", n)
	}
}

func TestStore_Validate_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, ok, err := store.Validate(ctx, "nope"); err != nil || ok {
		t.Errorf("Validate unknown: got ok=%v err=%v, want false, nil", ok, err)
	}
}

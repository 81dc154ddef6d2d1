package collect_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/features/collect"
	pageviewstore "github.com/dalemusser/pagepulse/internal/app/store/pageviews"
	projectstore "github.com/dalemusser/pagepulse/internal/app/store/projects"
	"github.com/dalemusser/pagepulse/internal/app/system/ratelimit"
	"github.com/dalemusser/pagepulse/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recorded struct {
	projectID primitive.ObjectID
	hit       pageviewstore.Hit
}

func newTestHandler(t *testing.T, id primitive.ObjectID) (*collect.Handler, *[]recorded) {
	t.Helper()
	lookup, _ := countingLookup("good-key", id)
	kc := collect.NewKeyCache(lookup, time.Minute)
	t.Cleanup(kc.Stop)

	var got []recorded
	h := &collect.Handler{
		Keys: kc,
		Record: func(r *http.Request, projectID primitive.ObjectID, hit pageviewstore.Hit) error {
			got = append(got, recorded{projectID, hit})
			return nil
		},
		Log: zap.NewNop(),
	}
	return h, &got
}

func post(h *collect.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/collect", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain;charset=UTF-8")
	req.Header.Set("User-Agent", "test-agent/1.0")
	rec := httptest.NewRecorder()
	h.ServeCollect(rec, req)
	return rec
}

func TestServeCollect_Records(t *testing.T) {
	id := primitive.NewObjectID()
	h, got := newTestHandler(t, id)

	rec := post(h, `{"key":"good-key","path":"/pricing","referrer":"https://news.example/"}`)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if len(*got) != 1 {
		t.Fatalf("recorded: got %d, want 1", len(*got))
	}
	r := (*got)[0]
	if r.projectID != id || r.hit.Path != "/pricing" || r.hit.Referrer != "https://news.example/" || r.hit.UserAgent != "test-agent/1.0" {
		t.Errorf("recorded: got %+v", r)
	}
}

func TestServeCollect_URLFallback(t *testing.T) {
	h, got := newTestHandler(t, primitive.NewObjectID())

	post(h, `{"key":"good-key","url":"https://site.example/docs?x=1"}`)

	if len(*got) != 1 || (*got)[0].hit.Path != "https://site.example/docs?x=1" {
		t.Errorf("recorded: got %+v", *got)
	}
}

func TestServeCollect_UnknownKeyIsSilent(t *testing.T) {
	h, got := newTestHandler(t, primitive.NewObjectID())

	rec := post(h, `{"key":"who-knows"}`)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
	if len(*got) != 0 {
		t.Errorf("recorded: got %d, want 0", len(*got))
	}
}

func TestServeCollect_BadPayloads(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"not json", "hello", http.StatusBadRequest},
		{"missing key", `{"path":"/"}`, http.StatusBadRequest},
		{"blank key", `{"key":"   "}`, http.StatusBadRequest},
		{"too large", `{"key":"good-key","path":"` + strings.Repeat("a", 8<<10) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, got := newTestHandler(t, primitive.NewObjectID())
			rec := post(h, tt.body)
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if len(*got) != 0 {
				t.Errorf("recorded: got %d, want 0", len(*got))
			}
		})
	}
}

func TestServeCollect_RecordFailure(t *testing.T) {
	h, _ := newTestHandler(t, primitive.NewObjectID())
	h.Record = func(*http.Request, primitive.ObjectID, pageviewstore.Hit) error {
		return errors.New("write concern")
	}

	rec := post(h, `{"key":"good-key"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestServeCollect_RateLimited(t *testing.T) {
	h, got := newTestHandler(t, primitive.NewObjectID())
	h.Limiter = ratelimit.New(2, time.Minute)
	t.Cleanup(h.Limiter.Stop)

	for i := 0; i < 2; i++ {
		post(h, `{"key":"good-key"}`)
	}
	rec := post(h, `{"key":"good-key"}`)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status: got %d, want 429", rec.Code)
	}
	if len(*got) != 2 {
		t.Errorf("recorded: got %d, want 2", len(*got))
	}
}

// allowsOrigin accepts either wildcard form a CORS layer may emit.
func allowsOrigin(v string) bool {
	return v == "*" || v == "https://tracked.example"
}

func TestRoutes_CORS(t *testing.T) {
	h, _ := newTestHandler(t, primitive.NewObjectID())
	router := collect.Routes(h)

	pre := httptest.NewRequest(http.MethodOptions, "/", nil)
	pre.Header.Set("Origin", "https://tracked.example")
	pre.Header.Set("Access-Control-Request-Method", "POST")
	pre.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, pre)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); !allowsOrigin(got) {
		t.Errorf("preflight Allow-Origin: got %q", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "POST") {
		t.Errorf("preflight Allow-Methods: got %q", rec.Header().Get("Access-Control-Allow-Methods"))
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"key":"good-key"}`))
	req.Header.Set("Origin", "https://tracked.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); !allowsOrigin(got) {
		t.Errorf("Allow-Origin: got %q", got)
	}
}

func TestServeCollect_WithMongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := testutil.NewFixtures(t, db).CreateProject(ctx, primitive.NewObjectID(), "Blog", time.Now())

	views := pageviewstore.New(db)
	kc := collect.NewKeyCache(collect.StoreLookup(projectstore.New(db)), time.Minute)
	defer kc.Stop()

	h := collect.NewHandler(kc, views, nil, zap.NewNop())
	rec := post(h, `{"key":"`+p.TrackingKey+`","path":"/"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}

	if n, _ := views.CountByProject(ctx, p.ID); n != 1 {
		t.Errorf("stored views: got %d, want 1", n)
	}
}

package logout_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/features/logout"
	"github.com/dalemusser/pagepulse/internal/app/system/auth"
	"github.com/dalemusser/pagepulse/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*logout.Handler, *auth.SessionManager) {
	t.Helper()
	logger := zap.NewNop()

	sm, err := auth.NewSessionManager("test-session-key-for-testing-only-32b", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return logout.NewHandler(sm, logger), sm
}

// signedInCookie signs a user in and returns the resulting session cookie.
func signedInCookie(t *testing.T, sm *auth.SessionManager) *http.Cookie {
	t.Helper()
	rec := testutil.NewRecorder()
	if err := sm.SignIn(rec, testutil.NewRequest("GET", "/login"), auth.SessionUser{ID: "u1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			return c
		}
	}
	t.Fatal("no session cookie after SignIn")
	return nil
}

func TestServeLogout_RedirectsToHome(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.ServeLogout(rec, testutil.NewRequest("GET", "/logout"))

	rec.AssertRedirect(t, "/")
}

func TestServeLogout_ClearsSessionCookie(t *testing.T) {
	h, sm := newTestHandler(t)

	req := testutil.NewRequest("GET", "/logout")
	req.AddCookie(signedInCookie(t, sm))
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, req)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected an expiring session cookie")
	}
}

func TestServeLogout_HTMX(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/logout")
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()
	h.ServeLogout(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect: got %q, want /", got)
	}
}

func TestRoutes_RequireSignedIn(t *testing.T) {
	h, sm := newTestHandler(t)
	router := logout.Routes(h, sm)

	req := testutil.NewRequest("GET", "/")
	req.Header.Set("Accept", "text/html")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
}

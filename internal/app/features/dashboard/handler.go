// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/pagepulse/internal/app/features/errors"
	"github.com/dalemusser/pagepulse/internal/app/features/live"
	"github.com/dalemusser/pagepulse/internal/app/store/queries/dashboardqueries"
	"github.com/dalemusser/pagepulse/internal/app/system/auth"
	"github.com/dalemusser/pagepulse/internal/app/system/timeouts"
	"github.com/dalemusser/pagepulse/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dustin/go-humanize"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// QueryFunc loads a user and their projects by email. It returns
// (nil, nil) when no user has that email.
type QueryFunc func(ctx context.Context, email string) (*dashboardqueries.UserProjects, error)

// RenderFunc writes a named template.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

type Handler struct {
	// BaseURL prefixes the collect endpoint in tracking snippets.
	BaseURL string

	Query  QueryFunc
	Render RenderFunc
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, baseURL string, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Query: func(ctx context.Context, email string) (*dashboardqueries.UserProjects, error) {
			return dashboardqueries.UserWithProjects(ctx, db, email)
		},
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
		ErrLog: errLog,
		Log:    logger,
	}
}

type projectCard struct {
	ID          string
	Name        string
	Domain      string
	TrackingKey string
	PageViews   string
	Active      bool
	CreatedAt   time.Time
	Created     string
}

type dashboardData struct {
	viewdata.BaseVM

	Greeting string
	Stats    Stats

	// Humanized for display.
	TotalProjects  string
	TotalPageViews string
	ActiveProjects string

	Projects    []projectCard
	HasProjects bool
	Query       string
	NoMatches   bool
	BaseURL     string
	ShortcutKey string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /dashboard                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.Email == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard query")
	defer cancel()

	up, err := h.Query(ctx, u.Email)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard query failed", err, "A database error occurred.", "/")
		return
	}
	if up == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	stats := ComputeStats(up.Projects)
	q := r.URL.Query().Get("q")
	shown := filterProjects(up.Projects, q)

	cards := make([]projectCard, 0, len(shown))
	for _, p := range shown {
		cards = append(cards, projectCard{
			ID:          p.ID.Hex(),
			Name:        p.Name,
			Domain:      p.Domain,
			TrackingKey: p.TrackingKey,
			PageViews:   humanize.Comma(p.PageViews),
			Active:      p.PageViews > 0,
			CreatedAt:   p.CreatedAt,
			Created:     humanize.Time(p.CreatedAt),
		})
	}

	data := dashboardData{
		BaseVM:         viewdata.NewBaseVM(r, "Dashboard"),
		Greeting:       up.User.DisplayName(),
		Stats:          stats,
		TotalProjects:  humanize.Comma(int64(stats.TotalProjects)),
		TotalPageViews: humanize.Comma(stats.TotalPageViews),
		ActiveProjects: humanize.Comma(int64(stats.ActiveProjects)),
		Projects:       cards,
		HasProjects:    stats.TotalProjects > 0,
		Query:          q,
		NoMatches:      stats.TotalProjects > 0 && len(cards) == 0,
		BaseURL:        h.BaseURL,
		ShortcutKey:    live.DefaultShortcutKey,
	}

	h.Render(w, r, "dashboard", data)
}

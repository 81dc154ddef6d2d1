// internal/app/features/projects/handler.go
package projects

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/pagepulse/internal/app/features/errors"
	projectstore "github.com/dalemusser/pagepulse/internal/app/store/projects"
	"github.com/dalemusser/pagepulse/internal/app/system/auth"
	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/dalemusser/pagepulse/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler creates and deletes the signed-in user's projects. Both actions
// land back on the dashboard.
type Handler struct {
	Projects *projectstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger

	// Forget, when set, is told the tracking key of each deleted project.
	Forget func(trackingKey string)
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Projects: projectstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

const dashboardURL = "/dashboard"

/*─────────────────────────────────────────────────────────────────────────────*
| POST /projects                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", dashboardURL)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "project create")
	defer cancel()

	p, err := h.Projects.Create(ctx, owner, r.FormValue("name"), r.FormValue("domain"))
	switch {
	case errors.Is(err, projectstore.ErrInvalidName):
		h.ErrLog.LogBadRequest(w, r, "project name missing", err, "Please give the project a name.", dashboardURL)
		return
	case errors.Is(err, projectstore.ErrNameTooLong):
		h.ErrLog.LogBadRequest(w, r, "project name too long", err, "That project name is too long.", dashboardURL)
		return
	case errors.Is(err, projectstore.ErrDomainTooLong):
		h.ErrLog.LogBadRequest(w, r, "project domain too long", err, "That domain is too long.", dashboardURL)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "project create failed", err, "A database error occurred.", dashboardURL)
		return
	}

	h.Log.Info("project created",
		zap.String("project_id", p.ID.Hex()),
		zap.String("owner_id", owner.Hex()))
	h.done(w, r)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /projects/{id}/delete                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "project delete")
	defer cancel()

	p, err := h.Projects.GetOwned(ctx, owner, id)
	if err == nil {
		err = h.Projects.Delete(ctx, owner, id)
	}
	switch {
	case errors.Is(err, projectstore.ErrNotFound):
		// Someone else's project looks the same as a missing one.
		h.ErrLog.NotFound(w, r)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "project delete failed", err, "A database error occurred.", dashboardURL)
		return
	}
	if h.Forget != nil {
		h.Forget(p.TrackingKey)
	}

	h.Log.Info("project deleted",
		zap.String("project_id", id.Hex()),
		zap.String("owner_id", owner.Hex()))
	h.done(w, r)
}

func (h *Handler) ownerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		h.ErrLog.LogForbidden(w, r, "session user id malformed", err, "Please sign in again.", "/login")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) done(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dashboardURL)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, dashboardURL, http.StatusSeeOther)
}

// internal/app/features/collect/handler.go
package collect

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	pageviewstore "github.com/dalemusser/pagepulse/internal/app/store/pageviews"
	"github.com/dalemusser/pagepulse/internal/app/system/limits"
	"github.com/dalemusser/pagepulse/internal/app/system/ratelimit"
	"github.com/dalemusser/pagepulse/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RecordFunc stores one page view.
type RecordFunc func(r *http.Request, projectID primitive.ObjectID, hit pageviewstore.Hit) error

// Handler is the public page-view beacon endpoint.
type Handler struct {
	Keys    *KeyCache
	Record  RecordFunc
	Limiter *ratelimit.Limiter
	Log     *zap.Logger
}

func NewHandler(keys *KeyCache, views *pageviewstore.Store, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{
		Keys: keys,
		Record: func(r *http.Request, projectID primitive.ObjectID, hit pageviewstore.Hit) error {
			ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), logger, "record page view")
			defer cancel()
			_, err := views.Record(ctx, projectID, hit)
			return err
		},
		Limiter: limiter,
		Log:     logger,
	}
}

// beacon is the JSON body a tracked page sends. navigator.sendBeacon posts
// it as text/plain, so the content type is not checked.
type beacon struct {
	Key      string `json:"key"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Referrer string `json:"referrer"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/collect                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeCollect records a page view and answers 204. Unknown keys also get
// 204 so the endpoint does not confirm which keys exist.
func (h *Handler) ServeCollect(w http.ResponseWriter, r *http.Request) {
	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		w.Header().Set("Retry-After", "60")
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxCollectBodySize)
	var b beacon
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	key := strings.TrimSpace(b.Key)
	if key == "" {
		http.Error(w, "missing key", http.StatusBadRequest)
		return
	}

	projectID, ok, err := h.Keys.Resolve(r.Context(), key)
	if err != nil {
		h.Log.Error("collect: key lookup failed", zap.Error(err))
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	if !ok {
		h.Log.Debug("collect: unknown key")
		w.WriteHeader(http.StatusNoContent)
		return
	}

	path := b.Path
	if path == "" {
		path = b.URL
	}
	hit := pageviewstore.Hit{
		Path:      path,
		Referrer:  b.Referrer,
		UserAgent: r.UserAgent(),
	}
	if err := h.Record(r, projectID, hit); err != nil {
		h.Log.Error("collect: record failed", zap.String("project_id", projectID.Hex()), zap.Error(err))
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

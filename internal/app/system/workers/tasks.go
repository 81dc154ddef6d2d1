// internal/app/system/workers/tasks.go
package workers

import (
	"context"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/store/oauthstate"
	pageviewstore "github.com/dalemusser/pagepulse/internal/app/store/pageviews"
)

// PageViewRetention deletes page views older than maxAge.
func PageViewRetention(views *pageviewstore.Store, maxAge time.Duration) Task {
	return Task{
		Name: "page_view_retention",
		Run: func(ctx context.Context) (int64, error) {
			return views.DeleteOlderThan(ctx, time.Now().UTC().Add(-maxAge))
		},
	}
}

// ExpiredOAuthStates removes OAuth states the TTL monitor has not reached yet.
func ExpiredOAuthStates(states *oauthstate.Store) Task {
	return Task{
		Name: "oauth_state_cleanup",
		Run:  states.CleanupExpired,
	}
}

// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"

	"github.com/dalemusser/pagepulse/internal/app/resources"
	"github.com/dalemusser/pagepulse/internal/app/store/oauthstate"
	pageviewstore "github.com/dalemusser/pagepulse/internal/app/store/pageviews"
	"github.com/dalemusser/pagepulse/internal/app/system/timeouts"
	"github.com/dalemusser/pagepulse/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// shared templates, applies timeout overrides and starts the sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment",
			zap.Int("count", n),
			zap.Any("timeouts", timeouts.Current()))
	}

	tasks := []workers.Task{workers.ExpiredOAuthStates(oauthstate.New(deps.MongoDatabase))}
	if appCfg.PageViewRetention > 0 {
		tasks = append(tasks, workers.PageViewRetention(pageviewstore.New(deps.MongoDatabase), appCfg.PageViewRetention))
	}
	sweeper := workers.NewSweeper(logger, appCfg.SweepInterval, timeouts.Long(), tasks...)
	sweeper.Start()
	onShutdown(sweeper.Stop)

	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Background resources stopped by Shutdown                                    |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	bgMu    sync.Mutex
	bgStops []func()
)

// onShutdown registers stop to run during Shutdown.
func onShutdown(stop func()) {
	bgMu.Lock()
	defer bgMu.Unlock()
	bgStops = append(bgStops, stop)
}

// stopBackground runs registered stops in reverse order, once each.
func stopBackground() {
	bgMu.Lock()
	stops := bgStops
	bgStops = nil
	bgMu.Unlock()

	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
}

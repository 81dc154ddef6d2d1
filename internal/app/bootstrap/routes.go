// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	authgooglefeature "github.com/dalemusser/pagepulse/internal/app/features/authgoogle"
	collectfeature "github.com/dalemusser/pagepulse/internal/app/features/collect"
	dashboardfeature "github.com/dalemusser/pagepulse/internal/app/features/dashboard"
	_ "github.com/dalemusser/pagepulse/internal/app/features/dashboard/views"
	errorsfeature "github.com/dalemusser/pagepulse/internal/app/features/errors"
	healthfeature "github.com/dalemusser/pagepulse/internal/app/features/health"
	homefeature "github.com/dalemusser/pagepulse/internal/app/features/home"
	_ "github.com/dalemusser/pagepulse/internal/app/features/home/views"
	livefeature "github.com/dalemusser/pagepulse/internal/app/features/live"
	loginfeature "github.com/dalemusser/pagepulse/internal/app/features/login"
	_ "github.com/dalemusser/pagepulse/internal/app/features/login/views"
	logoutfeature "github.com/dalemusser/pagepulse/internal/app/features/logout"
	projectsfeature "github.com/dalemusser/pagepulse/internal/app/features/projects"
	pageviewstore "github.com/dalemusser/pagepulse/internal/app/store/pageviews"
	projectstore "github.com/dalemusser/pagepulse/internal/app/store/projects"
	userstore "github.com/dalemusser/pagepulse/internal/app/store/users"
	"github.com/dalemusser/pagepulse/internal/app/system/auth"
	"github.com/dalemusser/pagepulse/internal/app/system/ratelimit"
	"github.com/dalemusser/pagepulse/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
//
// The collector endpoint is mounted outside CSRF protection because beacons
// arrive cross-origin from tracked sites. Everything a signed-in user drives
// from the browser (forms, the live overlay channel) sits behind csrf.Protect.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	prod := coreCfg.Env == "prod"
	db := deps.MongoDatabase

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, prod, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on every request so disabled accounts drop out immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))

	// Dev mode enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(sessionMgr.LoadSessionUser)
	r.NotFound(errLog.NotFound)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Beacon collector (cross-origin, no CSRF)
	keyCache := collectfeature.NewKeyCache(collectfeature.StoreLookup(projectstore.New(db)), appCfg.CollectCacheTTL)
	onShutdown(keyCache.Stop)
	collectLimiter := ratelimit.New(appCfg.CollectRateLimit, time.Minute)
	onShutdown(collectLimiter.Stop)
	collectHandler := collectfeature.NewHandler(keyCache, pageviewstore.New(db), collectLimiter, logger)
	r.Mount("/api/collect", collectfeature.Routes(collectHandler))

	protect := csrf.Protect(
		[]byte(appCfg.CSRFKey),
		csrf.FieldName(viewdata.CSRFFieldName),
		csrf.Secure(prod),
		csrf.Path("/"),
	)

	r.Group(func(r chi.Router) {
		if !prod {
			r.Use(plaintextCSRF)
		}
		r.Use(protect)

		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		// Authentication
		loginLimiter := ratelimit.NewLoginLimiter()
		onShutdown(loginLimiter.Stop)
		loginHandler := loginfeature.NewHandler(db, sessionMgr, loginLimiter, errLog, appCfg.GoogleEnabled(), logger)
		r.Mount("/login", loginfeature.Routes(loginHandler))
		r.Mount("/signup", loginfeature.SignupRoutes(loginHandler))

		if appCfg.GoogleEnabled() {
			googleHandler := authgooglefeature.NewHandler(db, sessionMgr, appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
			r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
		} else {
			logger.Info("google sign-in disabled (no client credentials)")
		}

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

		// Signed-in area
		dashboardHandler := dashboardfeature.NewHandler(db, appCfg.BaseURL, errLog, logger)
		r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

		projectsHandler := projectsfeature.NewHandler(db, errLog, logger)
		projectsHandler.Forget = keyCache.Forget
		r.Mount("/projects", projectsfeature.Routes(projectsHandler, sessionMgr))

		liveHandler := livefeature.NewHandler(appCfg.LiveWriteTimeout, logger)
		onShutdown(liveHandler.Close)
		r.Mount("/live", livefeature.Routes(liveHandler, sessionMgr))
	})

	return r, nil
}

// plaintextCSRF lets csrf.Protect accept same-origin posts over plain HTTP
// during local development.
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

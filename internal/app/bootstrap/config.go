// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minKeyLen is the shortest session or CSRF key accepted outside dev.
const minKeyLen = 32

// appConfigKeys defines the configuration keys for PagePulse.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: PAGEPULSE_MONGO_URI, PAGEPULSE_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "pagepulse", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "pagepulse-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789ABCDEF", Desc: "CSRF token key (32 bytes in production)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public base URL for OAuth callbacks and tracking snippets"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	// Collector
	{Name: "collect_cache_ttl", Default: "5m", Desc: "How long tracking-key lookups are cached"},
	{Name: "collect_rate_limit", Default: 600, Desc: "Page-view beacons accepted per client IP per minute"},

	// Live channel
	{Name: "live_write_timeout", Default: "5s", Desc: "Write deadline for each live-channel frame"},

	// Cleanup
	{Name: "page_view_retention", Default: "0", Desc: "Delete page views older than this (e.g., 2160h); 0 keeps them"},
	{Name: "sweep_interval", Default: "1h", Desc: "How often background cleanup runs"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, PAGEPULSE_* for app) and
// command-line flags with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "PAGEPULSE", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 30*24*time.Hour),

		CSRFKey: appValues.String("csrf_key"),
		BaseURL: appValues.String("base_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		CollectCacheTTL:  appValues.Duration("collect_cache_ttl", 5*time.Minute),
		CollectRateLimit: appValues.Int("collect_rate_limit"),

		LiveWriteTimeout: appValues.Duration("live_write_timeout", 5*time.Second),

		PageViewRetention: appValues.Duration("page_view_retention", 0),
		SweepInterval:     appValues.Duration("sweep_interval", time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// PagePulse checks the MongoDB URI before attempting to connect, requires
// real keys outside dev and rejects half-configured Google OAuth.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateApp(coreCfg.Env, appCfg)
}

// validateApp holds the checks that do not need WAFFLE.
func validateApp(env string, appCfg AppConfig) error {
	var errs []error

	if appCfg.MongoDatabase == "" {
		errs = append(errs, errors.New("mongo_database is required"))
	}
	if appCfg.SessionKey == "" {
		errs = append(errs, errors.New("session_key is required"))
	}
	if env != "dev" {
		if len(appCfg.SessionKey) < minKeyLen {
			errs = append(errs, fmt.Errorf("session_key must be at least %d bytes outside dev", minKeyLen))
		}
		if len(appCfg.CSRFKey) != minKeyLen {
			errs = append(errs, fmt.Errorf("csrf_key must be exactly %d bytes outside dev", minKeyLen))
		}
	}
	if (appCfg.GoogleClientID == "") != (appCfg.GoogleClientSecret == "") {
		errs = append(errs, errors.New("google_client_id and google_client_secret must be set together"))
	}
	if appCfg.CollectRateLimit <= 0 {
		errs = append(errs, errors.New("collect_rate_limit must be positive"))
	}
	if appCfg.PageViewRetention < 0 {
		errs = append(errs, errors.New("page_view_retention cannot be negative"))
	}
	if appCfg.SweepInterval <= 0 {
		errs = append(errs, errors.New("sweep_interval must be positive"))
	}

	return errors.Join(errs...)
}

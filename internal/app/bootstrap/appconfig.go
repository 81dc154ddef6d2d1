// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework side (ports, TLS, logging); everything PagePulse itself needs
// lives here and is passed to every lifecycle hook.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: pagepulse-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// CSRFKey authenticates form tokens. Must be 32 bytes outside dev.
	CSRFKey string

	// BaseURL is the public origin, used for OAuth callbacks and tracking snippets.
	BaseURL string // e.g., "https://pagepulse.example" or "http://localhost:8080"

	// Google OAuth (both blank disables the button)
	GoogleClientID     string
	GoogleClientSecret string

	// Collector tuning
	CollectCacheTTL  time.Duration // how long a tracking-key lookup is cached
	CollectRateLimit int           // beacons per client IP per minute

	// Live channel
	LiveWriteTimeout time.Duration

	// Background cleanup
	PageViewRetention time.Duration // 0 keeps page views forever
	SweepInterval     time.Duration
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c AppConfig) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

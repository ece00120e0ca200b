// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is everything
// specific to CourseLens.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: courselens-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // Session cookie lifetime

	// Base URL for OAuth callbacks (e.g., "https://courselens.example.edu")
	BaseURL string

	// Google OAuth configuration (blank disables the Google sign-in button)
	GoogleClientID     string
	GoogleClientSecret string

	// Redis-backed privilege cache. Blank address falls back to an
	// in-process cache, which is fine for a single instance.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// PrivilegeCacheTTL bounds how long a cached section privilege can
	// lag behind an instructor's real privileges.
	PrivilegeCacheTTL time.Duration

	// Admin account seeded at startup (blank email skips seeding)
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	authgooglefeature "github.com/mdrews/courselens/internal/app/features/authgoogle"
	errorsfeature "github.com/mdrews/courselens/internal/app/features/errors"
	healthfeature "github.com/mdrews/courselens/internal/app/features/health"
	homefeature "github.com/mdrews/courselens/internal/app/features/home"
	loginfeature "github.com/mdrews/courselens/internal/app/features/login"
	logoutfeature "github.com/mdrews/courselens/internal/app/features/logout"
	searchfeature "github.com/mdrews/courselens/internal/app/features/search"
	"github.com/mdrews/courselens/internal/app/store/accounts"
	"github.com/mdrews/courselens/internal/app/system/auth"
	"github.com/mdrews/courselens/internal/app/system/privcache"
	"github.com/mdrews/courselens/internal/app/system/statusmsg"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, boots
// the template engine, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"

	// ValidateConfig already rejected a blank key in prod; anywhere else a
	// blank key gets a random per-run key, which signs everyone out on
	// restart but needs no setup.
	sessionKey := appCfg.SessionKey
	if sessionKey == "" {
		key := securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("generate dev session key failed")
		}
		sessionKey = string(key)
		logger.Warn("session_key not set; using a random per-run key")
	}

	sessionTTL := appCfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 168 * time.Hour
	}

	sessionMgr, err := auth.NewSessionManager(sessionKey, appCfg.SessionName, appCfg.SessionDomain, sessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh account data on every request: role changes and disabled
	// accounts take effect immediately.
	sessionMgr.SetUserFetcher(accounts.NewFetcher(deps.MongoDatabase))

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Flash notifications ride the session cookie.
	flash := statusmsg.New(sessionMgr, logger)

	// Section privileges are cached in Redis when configured, else in
	// process memory.
	var cache privcache.Cache
	if deps.RedisClient != nil {
		cache = privcache.NewRedis(deps.RedisClient, appCfg.PrivilegeCacheTTL, logger)
	} else {
		cache = privcache.NewMemory(appCfg.PrivilegeCacheTTL)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.RedisClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, googleEnabled, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	googleHandler := authgooglefeature.NewHandler(deps.MongoDatabase, sessionMgr,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Cross-course search
	searchHandler := searchfeature.NewHandler(deps.MongoDatabase, errLog, flash, cache, logger)
	r.Mount("/search", searchfeature.Routes(searchHandler, sessionMgr))

	return r, nil
}

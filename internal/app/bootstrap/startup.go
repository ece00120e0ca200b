// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mdrews/courselens/internal/app/store/accounts"
	"github.com/mdrews/courselens/internal/app/store/oauthstate"
	"github.com/mdrews/courselens/internal/app/system/tasks"
)

// Background task runner started in Startup and stopped in Shutdown.
var (
	taskRunner *tasks.Runner
	taskCancel context.CancelFunc
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// CourseLens uses it to make sure the configured admin account exists, so
// a fresh deployment has someone who can sign in, and to start the
// background cleanup jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := seedAdmin(ctx, appCfg, deps, logger); err != nil {
			return err
		}
	}

	startBackgroundTasks(deps, logger)
	return nil
}

func seedAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	passwordHash := ""
	if appCfg.AdminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		passwordHash = string(hash)
	}

	store := accounts.New(deps.MongoDatabase)
	if err := store.EnsureAdmin(ctx, appCfg.AdminEmail, appCfg.AdminName, passwordHash); err != nil {
		return fmt.Errorf("ensure admin account: %w", err)
	}

	logger.Info("admin account ensured",
		zap.String("email", strings.ToLower(strings.TrimSpace(appCfg.AdminEmail))))
	return nil
}

func startBackgroundTasks(deps DBDeps, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	taskCancel = cancel
	taskRunner = tasks.NewRunner(logger,
		tasks.OAuthStateCleanupJob(oauthstate.New(deps.MongoDatabase), logger),
	)
	taskRunner.Start(ctx)
}

func stopBackgroundTasks() {
	if taskCancel != nil {
		taskCancel()
		taskRunner.Wait()
		taskRunner = nil
		taskCancel = nil
	}
}

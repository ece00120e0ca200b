// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mdrews/courselens/internal/app/store/oauthstate"
)

// OAuthStateCleanupJob creates a job that removes expired Google sign-in
// state tokens. Mongo's TTL index on oauth_states reaps them too; the job
// covers delayed TTL passes and makes the cleanup visible in logs.
func OAuthStateCleanupJob(states *oauthstate.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			count, err := states.CleanupExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("removed expired oauth states", zap.Int64("count", count))
			}
			return nil
		},
	}
}

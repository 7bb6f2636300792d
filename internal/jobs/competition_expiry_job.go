package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"dispatch/internal/core/application/usecases/commands"
)

// CompetitionExpiryJob sweeps stale competition windows once a minute,
// returning unaccepted orders to pending for manual assignment.
type CompetitionExpiryJob struct {
	handler commands.ExpireCompetitionsCommandHandler
	ttl     time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewCompetitionExpiryJob creates the expiry sweep job with the configured
// competition time-to-live.
func NewCompetitionExpiryJob(
	handler commands.ExpireCompetitionsCommandHandler,
	ttl time.Duration,
	logger *slog.Logger,
) *CompetitionExpiryJob {
	return &CompetitionExpiryJob{
		handler: handler,
		ttl:     ttl,
		cron:    cron.New(),
		logger:  logger.With("component", "competition_expiry_job"),
	}
}

// Start begins the expiry sweep, running every minute.
func (j *CompetitionExpiryJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewExpireCompetitionsCommand(j.ttl)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Competition expiry job misconfigured", "error", cmdErr)
			return
		}

		expired, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Competition expiry job failed", "error", handleErr)
			return
		}

		if expired > 0 {
			j.logger.InfoContext(ctx, "Expired stale competitions", "count", expired)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Competition expiry job started (running every minute)")
	return nil
}

// Stop stops the expiry sweep.
func (j *CompetitionExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Competition expiry job stopped")
}

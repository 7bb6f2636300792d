package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	competitionExpiryJob *CompetitionExpiryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	expireCompetitionsHandler commands.ExpireCompetitionsCommandHandler,
	competitionTTL time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		competitionExpiryJob: NewCompetitionExpiryJob(expireCompetitionsHandler, competitionTTL, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.competitionExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start competition expiry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.competitionExpiryJob.Stop()
}

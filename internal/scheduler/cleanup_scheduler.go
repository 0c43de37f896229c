package scheduler

import (
	"context"
	"time"

	"github.com/rapex-ph/onboarding-backend/internal/storage"
	"github.com/rapex-ph/onboarding-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CleanupScheduler periodically removes staged documents whose registration
// session expired without completing. Completed registrations promote their
// files out of the staging prefix, so anything still staged past the session
// TTL is an orphan.
type CleanupScheduler struct {
	cron       *cron.Cron
	documents  storage.DocumentStorage
	sessionTTL time.Duration
	grace      time.Duration
}

func NewCleanupScheduler(documents storage.DocumentStorage, sessionTTL time.Duration) *CleanupScheduler {
	return &CleanupScheduler{
		cron:       cron.New(),
		documents:  documents,
		sessionTTL: sessionTTL,
		// The grace period covers completions racing the sweep: a promote
		// right at the TTL boundary must not lose its staged copy early.
		grace: 30 * time.Minute,
	}
}

// Start schedules the hourly sweep.
func (s *CleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		if err := s.SweepOrphanedDocuments(context.Background()); err != nil {
			logger.Error("Staged document sweep failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for staged document sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Staged document cleanup scheduler started (hourly)", nil)

	return nil
}

// Stop stops the scheduler.
func (s *CleanupScheduler) Stop() {
	logger.Info("Stopping staged document cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Staged document cleanup scheduler stopped", nil)
}

// SweepOrphanedDocuments deletes staged objects older than the session TTL
// plus the grace period.
func (s *CleanupScheduler) SweepOrphanedDocuments(ctx context.Context) error {
	cutoff := time.Now().Add(-(s.sessionTTL + s.grace))

	keys, err := s.documents.ListStagedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.documents.Delete(ctx, keys...); err != nil {
		return err
	}

	logger.Info("Swept orphaned staged documents", map[string]interface{}{
		"deleted": len(keys),
	})
	return nil
}

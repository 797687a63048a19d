package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
	"github.com/jon4hz/feedbox/internal/scheduler"
)

const purgeProfilesJobID = "purge_profile_cache"

// Run starts the background jobs and blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	return e.scheduler.Run(ctx)
}

// Jobs returns the state of the background jobs.
func (e *Engine) Jobs() []scheduler.JobInfo {
	return e.scheduler.Jobs()
}

// setupJobs configures all scheduled jobs.
func (e *Engine) setupJobs() error {
	if err := e.scheduler.AddSingletonJob(
		purgeProfilesJobID,
		"Purge Profile Cache",
		"Drops cached user profiles so they are reloaded from the database",
		gocron.DurationJob(e.cfg.Cache.PurgeInterval),
		e.purgeProfiles,
	); err != nil {
		return fmt.Errorf("failed to add purge profile cache job: %w", err)
	}

	log.Info("Scheduled jobs configured successfully")
	return nil
}

func (e *Engine) purgeProfiles(ctx context.Context) error {
	stats := e.profiles.Stats()
	log.Debug("purging profile cache", "hits", stats.Hits, "misses", stats.Miss)
	return e.profiles.Purge(ctx)
}

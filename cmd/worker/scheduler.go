package main

import (
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/infrastructure/queue"
	"writerspocket-backend/pkg/container"
)

// asynqScheduler wraps queue.Scheduler with graceful shutdown
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler creates and configures the cron scheduler
func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := queue.NewScheduler(c.Config.Redis)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatal().Err(err).Msg("Failed to register scheduled jobs")
	}

	go func() {
		log.Info().Msg("Scheduler starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("Scheduler failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Info().Msg("Scheduler shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("Scheduler stopped")
}

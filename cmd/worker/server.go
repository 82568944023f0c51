package main

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/shared"
	"writerspocket-backend/pkg/container"
)

// asynqServer wraps asynq.Server with graceful shutdown
type asynqServer struct {
	*asynq.Server
}

// setupAsynqServer creates and configures the Asynq server
func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueCritical: 20,
				shared.QueueDefault:  10,
				shared.QueueLow:      5,
			},
			Concurrency: 20,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Error().
					Err(err).
					Str("task_type", task.Type()).
					Msg("Task failed")
			}),
		},
	)

	go func() {
		log.Info().Msg("Worker starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("Worker failed")
		}
	}()

	return &asynqServer{Server: srv}
}

// Shutdown gracefully shuts down the server with timeout
func (s *asynqServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info().Msg("Worker shutting down (waiting max 30s)...")
	done := make(chan struct{})
	go func() {
		s.Server.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("Worker gracefully stopped")
	case <-ctx.Done():
		log.Warn().Msg("Worker shutdown timeout exceeded")
	}
}

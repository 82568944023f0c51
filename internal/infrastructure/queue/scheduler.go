package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"writerspocket-backend/internal/config"
	"writerspocket-backend/internal/shared"
)

// =====================================================
// CRON SCHEDULER
// =====================================================

// Scheduler registers the recurring tasks. It runs inside the worker
// process alongside the task server.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(cfg config.RedisConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Host,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterJobs wires every recurring task.
func (s *Scheduler) RegisterJobs() error {
	return s.registerMonthlyStatementsJob()
}

// Monthly royalty statements, 6 AM UTC on the 1st. An empty period in the
// payload makes the handler cover the month that just ended.
func (s *Scheduler) registerMonthlyStatementsJob() error {
	payload, err := json.Marshal(shared.RoyaltyStatementsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeRoyaltyStatements, payload)

	_, err = s.scheduler.Register(
		"0 6 1 * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register monthly statements job")
		return err
	}

	log.Info().Msg("Registered monthly royalty statements: 06:00 UTC on the 1st")
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

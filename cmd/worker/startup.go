// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"writerspocket-backend/pkg/container"
)

// startServices performs startup health checks and exposes a probe endpoint
func startServices(c *container.Container) error {
	log.Info().
		Str("app", c.Config.App.Name).
		Str("version", c.Config.App.Version).
		Msg("Worker startup checks")

	if c.Cache == nil {
		return fmt.Errorf("redis connection required for worker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Cache.Ping(ctx); err != nil {
		return fmt.Errorf("redis check failed: %w", err)
	}
	log.Info().Msg("Redis connection OK")

	go startProbeServer()

	return nil
}

// startProbeServer serves liveness/readiness probes for orchestrators
func startProbeServer() {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"UP","service":"writerspocket-worker"}`))
	})
	http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"READY"}`))
	})

	log.Info().Msg("Probe server listening on :9999")
	if err := http.ListenAndServe(":9999", nil); err != nil {
		log.Error().Err(err).Msg("Probe server failed")
	}
}

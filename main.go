package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"homedash/dashd/internal/config"
	"homedash/dashd/internal/server"
)

func main() {
	cfg := config.Load(os.Getenv("DASHD_CONFIG"))

	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(os.Stderr).Level(cfg.LogLevel).With().Timestamp().Logger()

	srv := server.New(cfg, log)
	httpSrv := &http.Server{
		Addr:              cfg.Bind,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Bind).Str("data", cfg.DataDir).Msg("dashd listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	if err := srv.Close(); err != nil {
		log.Error().Err(err).Msg("state flush")
	}
	log.Info().Msg("dashd stopped")
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mathflash/internal/config"
	"github.com/robalobadob/mathflash/internal/database"
	"github.com/robalobadob/mathflash/internal/httpserver"
	"github.com/robalobadob/mathflash/internal/janitor"
	"github.com/robalobadob/mathflash/internal/question"
	"github.com/robalobadob/mathflash/internal/sessionlog"
	"github.com/robalobadob/mathflash/internal/store"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP backend",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions := store.NewMemoryStore()
	handoffs := store.NewHandoffs(cfg.HandoffTTL)

	// ── Dependencies ────────────────────────────────────────────────
	srv := httpserver.New(httpserver.Deps{
		Sessions:     sessions,
		Handoffs:     handoffs,
		Log:          sessionlog.New(sessionlog.NewSQLiteBlobs(db)),
		Questions:    question.NewGenerator(nil),
		Presets:      loadPresets(),
		Logger:       log.Logger,
		Secret:       cfg.JWTSecret,
		ClientOrigin: cfg.ClientOrigin,
		Production:   cfg.Production,
	})

	jan := janitor.New(sessions, handoffs, cfg.SessionIdleTimeout, cfg.SweepInterval)
	if err := jan.Start(); err != nil {
		return err
	}
	defer jan.Stop()

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info().Msg("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("db", cfg.DBPath).Msg("starting mathflash server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// end whatever is still live so finished sessions reach the log
	live, _ := sessions.All(context.Background())
	for _, s := range live {
		if _, _, err := s.End(context.Background()); err != nil {
			log.Warn().Err(err).Str("gameId", s.ID).Msg("record session on shutdown")
		}
	}
	log.Info().Int("sessions", len(live)).Msg("server stopped")
	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guessroom/guessroom/internal/httpserver"
	"github.com/guessroom/guessroom/internal/registry"
	"github.com/guessroom/guessroom/internal/words"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dict, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", dict.Len()).Msg("word list loaded")

	reg := registry.New(registry.Config{
		Dictionary:    dict.Contains,
		TTL:           cfg.GameTTL,
		SweepInterval: cfg.SweepEvery,
	})
	reg.Start()

	srv := httpserver.New(reg, httpserver.Config{
		ClientOrigin: cfg.ClientOrigin,
		CookieSecret: cfg.CookieSecret,
	})
	httpSrv := &http.Server{Addr: ":" + cfg.Port, Handler: srv.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting guessroom server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Closing the registry first ends every event stream, so Shutdown is
	// not stuck waiting on long-lived connections.
	reg.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
}

// Command minerd runs a headless mining session and streams it over websockets.
package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacehole-rogue/orbitminer/internal/feed"
	"github.com/spacehole-rogue/orbitminer/internal/game"
	"github.com/spacehole-rogue/orbitminer/internal/logger"
	"github.com/spacehole-rogue/orbitminer/internal/world"
	"golang.org/x/time/rate"
)

// Per-client command budget.
const (
	commandRate  = 20
	commandBurst = 40
)

func main() {
	if err := run(); err != nil {
		slog.Error("minerd failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := world.LoadSettings()
	if err != nil {
		return err
	}
	log := logger.Init(settings.LogLevel, settings.LogFormat)

	balance, err := world.LoadBalanceFile(settings.BalancePath)
	if err != nil {
		return err
	}

	seed := settings.SeedOrNow()
	ctrl := game.NewController(balance, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), log)
	log.Info("Session created", "session", ctrl.SessionID, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := feed.NewRunner(ctrl, nil, feed.RunnerConfig{
		Tick:       settings.TickInterval(),
		SnapshotHz: settings.SnapshotHz,
	}, log)
	hub := feed.NewHub(runner.Handle, rate.Limit(commandRate), commandBurst, log)
	runner.SetHub(hub)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           feed.NewHandler(runner, hub, settings.AllowedOrigins, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Listening", "addr", settings.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	runErr := runner.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	log.Info("Bye")
	return runErr
}

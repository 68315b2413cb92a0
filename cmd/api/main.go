package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/virtline/number-sim/internal/config"
	"github.com/virtline/number-sim/internal/core"
	httpapi "github.com/virtline/number-sim/internal/http"
	"github.com/virtline/number-sim/internal/jobs"
	"github.com/virtline/number-sim/internal/logging"
	"github.com/virtline/number-sim/internal/provider"
	"github.com/virtline/number-sim/internal/storage"
	"github.com/virtline/number-sim/internal/synth"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		exitCode = 1
		return
	}

	log := logging.New(cfg.Environment)

	rootCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := storage.New(cfg.DataDir, log)
	if err != nil {
		log.Error().Err(err).Msg("storage")
		exitCode = 1
		return
	}

	// Real-number path is strictly optional: no API key, no provider.
	var prov provider.Provider
	if cfg.Provider.APIKey != "" {
		prov = provider.NewActivate(log, cfg.Provider.BaseURL, cfg.Provider.APIKey,
			&http.Client{Timeout: cfg.Provider.Timeout})
		log.Info().Msg("real-number provider enabled")
	} else {
		log.Info().Msg("no provider credentials, virtual generation only")
	}

	ledger := core.NewLedger(store, cfg.AdminID, cfg.DefaultQuota, log)
	gen := core.NewGenerator(store, prov, cfg.Provider.Timeout, log)
	inbox := core.NewInbox(store, log)
	svc := core.NewService(ledger, gen, inbox, log)

	// ---- Synthesis engine ----
	engine := synth.NewEngine(inbox, gen, synth.Options{
		Interval:   cfg.Synth.Interval,
		BatchSize:  cfg.Synth.Batch,
		RatePerSec: cfg.Synth.Rate,
		Burst:      cfg.Synth.Burst,
	}, log)
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := engine.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("synthesis engine exited")
		}
	}()

	// ---- Housekeeping jobs ----
	sched := jobs.NewScheduler(svc, cfg.Jobs.StatsSpec, cfg.Jobs.RetireSpec, cfg.Jobs.RetireAfter, log)
	if err := sched.Start(); err != nil {
		log.Error().Err(err).Msg("scheduler")
		exitCode = 1
		return
	}

	// ---- HTTP server ----
	srv := httpapi.NewServer(svc, store)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	<-rootCtx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	sched.Stop()

	select {
	case <-engineDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("synthesis engine did not stop in time")
	}
}

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

	"gist/internal/bot"
	"gist/internal/metrics"
	"gist/internal/scheduler"

	"github.com/spf13/cobra"
)

const (
	metricsReadHeaderTimeout = 5 * time.Second
	metricsShutdownTimeout   = 5 * time.Second
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot until SIGINT or SIGTERM",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBot(cmd.Context())
		},
	}
}

func (a *app) runBot(parent context.Context) error {
	if err := a.cfg.ValidateBot(); err != nil {
		return err
	}

	log := a.log
	start := time.Now()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	svc, err := newServices(ctx, a.cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err = svc.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close services",
				"error", err)
		}
	}()

	botInst, err := bot.New(a.cfg.Token, svc.fetcher, svc.pipeline,
		a.cfg.AllowedUsers, a.cfg.Summary.WordBudget, log)
	if err != nil {
		return fmt.Errorf("init bot: %w", err)
	}
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(a.cfg.AllowedUsers))

	if svc.db != nil {
		sched := scheduler.New(ctx, a.cfg.Cache.PruneSpec, svc.db, log)
		if err = sched.Start(); err != nil {
			botInst.Stop()
			return err
		}
		defer sched.Stop()

		log.InfoContext(ctx, "Scheduler is started",
			"spec", a.cfg.Cache.PruneSpec,
			"timezone", scheduler.Timezone)
	}

	var metricsServer *http.Server
	if a.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(svc.registry))

		metricsServer = &http.Server{
			Addr:              a.cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: metricsReadHeaderTimeout,
		}

		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.ErrorContext(ctx, "Metrics server failed",
					"error", err,
					"addr", a.cfg.MetricsAddr)
			}
		}()
		log.InfoContext(ctx, "Metrics server is started",
			"addr", a.cfg.MetricsAddr)
	}

	go func() {
		botInst.Start(ctx)
	}()
	log.InfoContext(ctx, "Bot is started")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-c:
		log.InfoContext(ctx, "Shutdown signal is received",
			"signal", sig.String())
	case <-ctx.Done():
	}
	cancel()

	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer shutdownCancel()

		if err = metricsServer.Shutdown(shutdownCtx); err != nil {
			log.ErrorContext(shutdownCtx, "Failed to stop metrics server",
				"error", err)
		}
	}

	botInst.Stop()
	log.InfoContext(ctx, "Bot is stopped",
		"uptimeSeconds", time.Since(start).Seconds())

	return nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/livefir/livescene"
	"github.com/livefir/livescene/host"
	"github.com/livefir/livescene/internal/journal"
	"github.com/livefir/livescene/internal/metrics"
	"github.com/livefir/livescene/internal/transport"
	"github.com/livefir/livescene/scene"
)

func newServeCmd(a *app) *cobra.Command {
	var templates string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept edit batches over a WebSocket and apply them every tick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, a, templates)
		},
	}
	cmd.Flags().StringVar(&templates, "templates", "", "glob of HTML template files announced before the first batch")
	return cmd
}

func serve(ctx context.Context, a *app, templatePattern string) error {
	templates, err := loadTemplates(templatePattern)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	w := scene.NewWorld()
	root := w.Spawn(host.Bundle{Kind: host.KindDiv})
	r := livescene.New(root, a.reconcilerOptions(a.log.Named("reconciler"), collector)...)

	var d *livescene.Driver
	srv := transport.New(
		transport.WithLogger(a.log.Named("transport")),
		transport.WithQueue(a.cfg.Server.Queue),
		transport.WithMetrics(collector),
		transport.WithHealth(func() error {
			var err error
			d.Inspect(func(_ host.Host, r *livescene.Reconciler) { err = r.Err() })
			return err
		}),
	)
	d = livescene.NewDriver(r, w, &preload{source: srv, templates: templates})

	if path := a.cfg.Journal.Path; path != "" {
		j, err := journal.Open(ctx, path, a.log.Named("journal"))
		if err != nil {
			return err
		}
		defer j.Close()
		d.Journal = j
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(a.cfg.Server.Path),
		ReadHeaderTimeout: 5 * time.Second,
	}
	listenErr := make(chan error, 1)
	go func() {
		a.log.Info("listening",
			zap.String("addr", httpServer.Addr),
			zap.String("path", a.cfg.Server.Path))
		listenErr <- httpServer.ListenAndServe()
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- d.Run(ctx, a.cfg.Server.Tick) }()

	select {
	case err = <-listenErr:
	case err = <-runErr:
		if errors.Is(err, context.Canceled) {
			err = nil
		} else {
			a.log.Error("reconciler stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		a.log.Warn("shutdown failed", zap.Error(shutdownErr))
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

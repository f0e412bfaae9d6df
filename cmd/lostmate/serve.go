package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/lostmate/internal/api"
	"github.com/erazemk/lostmate/internal/photos"
	"github.com/erazemk/lostmate/internal/seed"
	"github.com/erazemk/lostmate/internal/storage"
	"github.com/erazemk/lostmate/internal/store"
)

// shutdownTimeout bounds both the HTTP drain and the final store flush.
const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	var latency time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			if cmd.Flags().Changed("latency") {
				if latency < 0 {
					return fmt.Errorf("--latency must not be negative")
				}
				a.cfg.Latency = latency
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address (env LOSTMATE_ADDR)")
	cmd.Flags().DurationVar(&latency, "latency", 0, "simulated delay before each mutation (env LOSTMATE_LATENCY)")
	return cmd
}

// serve runs the HTTP server until ctx ends, then drains requests and flushes
// the store.
func (a *app) serve(ctx context.Context) error {
	database, dialect, err := a.openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	dataset := seed.Default()
	st := store.New(storage.NewSQL(database, dialect), dataset,
		store.WithLogger(a.log),
		store.WithLatency(a.cfg.Latency),
		store.WithWriteTimeout(a.cfg.WriteTimeout),
	)
	defer st.Close()
	st.Initialize(ctx)

	router := api.NewRouter(st, photos.New(database, dialect), dataset.Categories, a.log)
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           api.LoggingMiddleware(a.log, router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	changes, unsubscribe := st.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		watchChanges(gctx, changes, st, a.log)
		return nil
	})
	g.Go(func() error {
		a.log.Info().Str("addr", a.cfg.Addr).Dur("latency", a.cfg.Latency).Msg("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("server forced to shutdown")
		}
		return nil
	})
	serveErr := g.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := st.Flush(flushCtx); err != nil {
		a.log.Warn().Err(err).Msg("pending writes not flushed")
	}

	a.log.Info().Msg("server stopped, closing database")
	return serveErr
}


// watchChanges logs the collection size after every change signal until ctx
// ends.
func watchChanges(ctx context.Context, changes <-chan struct{}, st *store.Store, log zerolog.Logger) {
	for {
		select {
		case <-changes:
			log.Debug().Int("items", len(st.Items())).Bool("loading", st.Loading()).Msg("items changed")
		case <-ctx.Done():
			return
		}
	}
}

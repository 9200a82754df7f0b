package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"kontent-migrator/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := state.requireEnvironments(); err != nil {
				return err
			}

			if addr == "" {
				addr = state.cfg.Server.Addr
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			handler := server.New(server.Config{
				Types:    state.sourceClient(),
				Targets:  state.targetClient(),
				Language: state.cfg.Language,
				Gatherer: registry,
				Logger:   state.log,
			})

			srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

			go func() {
				<-cmd.Context().Done()

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				_ = srv.Shutdown(ctx)
			}()

			state.log.Infof("serving API on http://%s/v1 (OpenAPI at /openapi.json, docs at /docs)", addr)

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

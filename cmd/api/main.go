package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "intern_reports/internal/adapters/httpserver"
	"intern_reports/internal/adapters/observability"
	"intern_reports/internal/adapters/reports"
	"intern_reports/internal/app"
	"intern_reports/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	client, err := reports.New(cfg.BaseURL, reports.Options{
		RPS:     cfg.RPS,
		Timeout: cfg.FetchTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize report site client")
	}

	snap := app.NewSnapshot()
	agg := app.NewAggregator(client, cfg.FieldWorkers, cfg.CountryWorkers, cfg.DetailWorkers)
	refresher := app.NewRefresher(agg, snap, cfg.RefreshInterval)

	// First scrape runs synchronously so the service comes up ready when the
	// site cooperates. On failure we still serve (500s) and retry on the tick.
	log.Info().Str("base", cfg.BaseURL).Msg("running startup scrape")
	if err := refresher.RefreshOnce(ctx); err != nil {
		log.Error().Err(err).Msg("startup scrape failed, serving 500 until a refresh succeeds")
	}
	go refresher.Run(ctx)

	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Snap: snap})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"intern_reports/internal/adapters/observability"
	"intern_reports/internal/adapters/reports"
	"intern_reports/internal/app"
	"intern_reports/internal/shared"
)

// One-shot scrape: run a single aggregation and dump the dataset as JSON, for
// inspecting the scraped data without standing up the API.
func main() {
	out := flag.String("o", "", "write the dataset to this file instead of stdout")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.BaseURL).
		Int("field_workers", cfg.FieldWorkers).
		Int("country_workers", cfg.CountryWorkers).
		Int("detail_workers", cfg.DetailWorkers).
		Msg("scraper starting")

	client, err := reports.New(cfg.BaseURL, reports.Options{
		RPS:     cfg.RPS,
		Timeout: cfg.FetchTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize report site client")
	}

	agg := app.NewAggregator(client, cfg.FieldWorkers, cfg.CountryWorkers, cfg.DetailWorkers)

	start := time.Now()
	dump, err := agg.DataDump(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("aggregation failed")
	}
	log.Info().
		Int("reviews", len(dump.Reviews)).
		Int("fields", len(dump.Fields)).
		Int("specializations", len(dump.Specializations)).
		Dur("took", time.Since(start)).
		Msg("aggregation completed")

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("failed to create output file")
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		log.Fatal().Err(err).Msg("failed to encode dataset")
	}
}

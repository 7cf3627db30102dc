package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Refresher re-runs the aggregation on a fixed interval and publishes each
// successful result to the snapshot.
type Refresher struct {
	agg      *Aggregator
	snap     *Snapshot
	interval time.Duration
}

func NewRefresher(agg *Aggregator, snap *Snapshot, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 12 * time.Hour
	}
	return &Refresher{agg: agg, snap: snap, interval: interval}
}

// RefreshOnce runs one aggregation and replaces the snapshot on success. On
// failure the previous snapshot stays in place.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	start := time.Now()
	dump, err := r.agg.DataDump(ctx)
	if err != nil {
		return err
	}
	r.snap.Replace(dump)
	log.Info().
		Int("reviews", len(dump.Reviews)).
		Int("fields", len(dump.Fields)).
		Int("specializations", len(dump.Specializations)).
		Dur("took", time.Since(start)).
		Msg("dataset refreshed")
	return nil
}

// Run blocks, refreshing every interval until ctx is cancelled. The caller is
// expected to have run the first refresh synchronously at startup.
func (r *Refresher) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.RefreshOnce(ctx); err != nil {
				log.Error().Err(err).Msg("refresh failed, keeping previous snapshot")
			}
		}
	}
}

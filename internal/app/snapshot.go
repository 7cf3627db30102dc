package app

import (
	"sync"
	"time"

	"intern_reports/internal/adapters/observability"
	"intern_reports/internal/domain"
)

// Snapshot holds the last successfully aggregated dataset. It is replaced
// atomically and only on success, so a failed refresh keeps the previous
// dataset served (stale beats unavailable). Before the first success there is
// nothing to serve.
type Snapshot struct {
	mu        sync.RWMutex
	data      *domain.AllReviewData
	updatedAt time.Time
}

func NewSnapshot() *Snapshot { return &Snapshot{} }

func (s *Snapshot) Replace(d *domain.AllReviewData) {
	s.mu.Lock()
	s.data = d
	s.updatedAt = time.Now()
	s.mu.Unlock()

	observability.SetDatasetRecords("reviews", len(d.Reviews))
	observability.SetDatasetRecords("fields", len(d.Fields))
	observability.SetDatasetRecords("specializations", len(d.Specializations))
	observability.SetDatasetRecords("categories", len(d.CountryCategories))
}

// Current returns the served dataset, its timestamp, and whether one exists.
func (s *Snapshot) Current() (*domain.AllReviewData, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data, s.updatedAt, s.data != nil
}

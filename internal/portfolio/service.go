// Package portfolio owns the session-facing record cache: it fetches raw
// rows from the configured source, normalizes them once, and serves the
// result until it goes stale.
package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KhemraButh/Loan-Performance/internal/core"
	"github.com/KhemraButh/Loan-Performance/internal/records"

	"golang.org/x/sync/singleflight"
)

// Data is one coherent view of the portfolio. Stale means the staleness
// interval has passed but the upstream fetch failed, so a previously
// cached set is being served.
type Data struct {
	Records   []core.LoanRecord
	FetchedAt time.Time
	Stale     bool
}

type Service struct {
	fetcher   records.Fetcher
	snapshots records.SnapshotStore // optional fallback, may be nil
	ttl       time.Duration

	sf singleflight.Group

	mu        sync.Mutex
	cached    []core.LoanRecord
	fetchedAt time.Time
}

// New builds a service over the given source. snapshots may be nil; when
// set, a cold cache falls back to the stored snapshot if the source is
// unreachable. ttl is the staleness interval after which records are
// re-fetched.
func New(fetcher records.Fetcher, snapshots records.SnapshotStore, ttl time.Duration) *Service {
	return &Service{fetcher: fetcher, snapshots: snapshots, ttl: ttl}
}

// Records returns the current normalized record set, fetching from the
// source when the cache is cold or stale. Concurrent callers share one
// upstream fetch. A failed refresh degrades to the cached set (marked
// stale) rather than an error; only a cold cache with no fallback fails.
func (s *Service) Records(ctx context.Context) (Data, error) {
	s.mu.Lock()
	if s.fetchedAt.IsZero() || time.Since(s.fetchedAt) >= s.ttl {
		s.mu.Unlock()
		return s.refresh(ctx)
	}
	d := Data{Records: s.cached, FetchedAt: s.fetchedAt}
	s.mu.Unlock()
	return d, nil
}

// Invalidate drops the cache so the next call re-fetches. Used by the
// manual refresh action and by snapshot-refreshed notifications.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

// FetchedAt reports when the cached set was fetched; zero when cold.
func (s *Service) FetchedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchedAt
}

func (s *Service) refresh(ctx context.Context) (Data, error) {
	v, err, _ := s.sf.Do("records", func() (any, error) {
		// Another goroutine may have refreshed while this one waited.
		s.mu.Lock()
		if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.ttl {
			d := Data{Records: s.cached, FetchedAt: s.fetchedAt}
			s.mu.Unlock()
			return d, nil
		}
		s.mu.Unlock()

		rows, fetchErr := s.fetcher.FetchRecords(ctx)
		if fetchErr != nil {
			return s.degrade(ctx, fetchErr)
		}
		recs := core.Normalize(rows)
		now := time.Now()
		s.mu.Lock()
		s.cached = recs
		s.fetchedAt = now
		s.mu.Unlock()
		slog.InfoContext(ctx, "Portfolio refreshed", "records", len(recs))
		return Data{Records: recs, FetchedAt: now}, nil
	})
	if err != nil {
		return Data{}, err
	}
	return v.(Data), nil
}

// degrade serves whatever is still available after a failed fetch: the
// in-memory cache first, then the snapshot store. With neither, the
// failure is surfaced as ErrSourceUnavailable.
func (s *Service) degrade(ctx context.Context, fetchErr error) (Data, error) {
	s.mu.Lock()
	if !s.fetchedAt.IsZero() {
		d := Data{Records: s.cached, FetchedAt: s.fetchedAt, Stale: true}
		s.mu.Unlock()
		slog.WarnContext(ctx, "Record fetch failed, serving cached data",
			"error", fetchErr,
			"fetched_at", d.FetchedAt)
		return d, nil
	}
	s.mu.Unlock()

	if s.snapshots != nil {
		rows, fetchedAt, snapErr := s.snapshots.LoadSnapshot(ctx)
		if snapErr == nil && !fetchedAt.IsZero() {
			recs := core.Normalize(rows)
			s.mu.Lock()
			s.cached = recs
			s.fetchedAt = fetchedAt
			s.mu.Unlock()
			slog.WarnContext(ctx, "Record fetch failed, serving snapshot",
				"error", fetchErr,
				"snapshot_fetched_at", fetchedAt)
			return Data{Records: recs, FetchedAt: fetchedAt, Stale: true}, nil
		}
		if snapErr != nil {
			slog.ErrorContext(ctx, "Snapshot fallback failed", "error", snapErr)
		}
	}
	return Data{}, fmt.Errorf("%w: %v", core.ErrSourceUnavailable, fetchErr)
}

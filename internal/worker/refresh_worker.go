// Package worker refreshes the persisted portfolio snapshot on a schedule:
// fetch from the upstream source, store the raw rows, notify dashboards.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KhemraButh/Loan-Performance/internal/records"
)

// Publisher announces a completed refresh. Nil publisher disables
// notifications; the dashboards then rely on their staleness interval.
type Publisher interface {
	PublishSnapshotRefreshed(ctx context.Context, fetchedAt time.Time, recordCount int) error
}

type RefreshWorker struct {
	fetcher   records.Fetcher
	store     records.SnapshotStore
	publisher Publisher
	interval  time.Duration
}

func NewRefreshWorker(fetcher records.Fetcher, store records.SnapshotStore, publisher Publisher, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		fetcher:   fetcher,
		store:     store,
		publisher: publisher,
		interval:  interval,
	}
}

// Run refreshes once immediately, then on every interval tick until the
// context is canceled. A failed refresh is logged and retried at the next
// tick; the previous snapshot stays in place.
func (w *RefreshWorker) Run(ctx context.Context) error {
	if err := w.RefreshOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial snapshot refresh failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Refresh worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.RefreshOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Snapshot refresh failed", "error", err)
			}
		}
	}
}

// RefreshOnce performs a single fetch-store-notify cycle.
func (w *RefreshWorker) RefreshOnce(ctx context.Context) error {
	rows, err := w.fetcher.FetchRecords(ctx)
	if err != nil {
		return fmt.Errorf("fetch records: %w", err)
	}

	fetchedAt := time.Now()
	if err := w.store.SaveSnapshot(ctx, rows, fetchedAt); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if w.publisher != nil {
		if err := w.publisher.PublishSnapshotRefreshed(ctx, fetchedAt, len(rows)); err != nil {
			// The snapshot itself is safe; dashboards fall back to TTL expiry.
			slog.WarnContext(ctx, "Failed to publish refresh notification", "error", err)
		}
	}

	slog.InfoContext(ctx, "Snapshot refreshed", "rows", len(rows), "fetched_at", fetchedAt)
	return nil
}

package records

import (
	"context"
	"time"

	"github.com/KhemraButh/Loan-Performance/internal/core"
)

// Ports for outbound adapters.
type (
	// Fetcher returns the raw loan rows from a record source. One call is
	// one scoped acquisition; callers decide caching and staleness.
	Fetcher interface {
		FetchRecords(ctx context.Context) ([]core.RawRow, error)
	}

	// SnapshotStore persists the most recent fetched rows so the dashboard
	// can keep serving data when the upstream source is unavailable.
	SnapshotStore interface {
		SaveSnapshot(ctx context.Context, rows []core.RawRow, fetchedAt time.Time) error
		// LoadSnapshot returns the stored rows and when they were fetched.
		// An empty store returns no rows, a zero time, and no error.
		LoadSnapshot(ctx context.Context) ([]core.RawRow, time.Time, error)
	}
)

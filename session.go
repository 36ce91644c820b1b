package cqlbind

import "context"

// Session is the capability this package needs from a CQL driver. The gocql
// adapter in this repository implements it; tests supply an in-memory fake.
// Transport concerns (pooling, retries, consistency) belong to the
// implementation, not to callers of this interface.
type Session interface {
	// Exec runs cql directly, without preparing it first. Used for DDL and
	// other one-shot statements.
	Exec(ctx context.Context, cql string, values ...any) error
	// Query runs cql directly and returns its rows.
	Query(ctx context.Context, cql string, values ...any) Rows
	// Prepare compiles cql into a reusable handle.
	Prepare(ctx context.Context, cql string) (Prepared, error)
	// Batch submits all items as one composite statement. With LoggedBatch
	// the server applies them as a single atomic unit.
	Batch(ctx context.Context, kind BatchKind, items []BatchItem) error
	// BatchAsync is Batch with completion delivered via done, which is
	// called exactly once.
	BatchAsync(ctx context.Context, kind BatchKind, items []BatchItem, done func(error))
	Close()
}

// Prepared is a reusable statement handle returned by Session.Prepare. It is
// safe for concurrent use.
type Prepared interface {
	CQL() string
	Exec(ctx context.Context, values ...any) error
	// ExecAsync executes the statement and calls done exactly once when the
	// operation completes.
	ExecAsync(ctx context.Context, values []any, done func(error))
	Query(ctx context.Context, values ...any) Rows
	// QueryAsync executes the query and calls done exactly once with the
	// resulting rows.
	QueryAsync(ctx context.Context, values []any, done func(Rows, error))
}

// Rows iterates a result set. It follows the gocql iterator shape: MapScan
// fills row and reports whether a row was read, and Close returns any error
// encountered during iteration.
type Rows interface {
	MapScan(row map[string]any) bool
	Close() error
}

// BatchKind selects how the server applies a composite batch.
type BatchKind int

const (
	// LoggedBatch applies all statements atomically via the batch log.
	LoggedBatch BatchKind = iota
	// UnloggedBatch skips the batch log; statements may apply independently.
	UnloggedBatch
	// CounterBatch is for counter column updates only.
	CounterBatch
)

// BatchItem is one generated statement within a composite batch.
type BatchItem struct {
	CQL    string
	Values []any
}

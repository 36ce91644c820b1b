package cqlbind

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gocql/gocql"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewSession opens a gocql-backed Session. reg may be nil to skip metrics
// registration; logger may be nil to discard logs.
func NewSession(cfg Config, logger log.Logger, reg prometheus.Registerer) (Session, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	obs := newObserver(logger, reg)
	session, err := cfg.session(obs)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &gocqlSession{session: session}, nil
}

type gocqlSession struct {
	session *gocql.Session
}

func (s *gocqlSession) Exec(ctx context.Context, cql string, values ...any) error {
	return errors.WithStack(s.session.Query(cql, values...).WithContext(ctx).Exec())
}

func (s *gocqlSession) Query(ctx context.Context, cql string, values ...any) Rows {
	return gocqlRows{iter: s.session.Query(cql, values...).WithContext(ctx).Iter()}
}

// Prepare returns a reusable handle for cql. gocql prepares statements on
// first execution and keeps its own per-host prepared cache, so no round
// trip happens here; the handle pins the generated text.
func (s *gocqlSession) Prepare(_ context.Context, cql string) (Prepared, error) {
	return &gocqlPrepared{session: s.session, cql: cql}, nil
}

func (s *gocqlSession) Batch(ctx context.Context, kind BatchKind, items []BatchItem) error {
	b := s.session.NewBatch(kind.gocqlType()).WithContext(ctx)
	for _, item := range items {
		b.Query(item.CQL, item.Values...)
	}
	return errors.WithStack(s.session.ExecuteBatch(b))
}

func (s *gocqlSession) BatchAsync(ctx context.Context, kind BatchKind, items []BatchItem, done func(error)) {
	go func() {
		done(s.Batch(ctx, kind, items))
	}()
}

func (s *gocqlSession) Close() {
	s.session.Close()
}

func (k BatchKind) gocqlType() gocql.BatchType {
	switch k {
	case UnloggedBatch:
		return gocql.UnloggedBatch
	case CounterBatch:
		return gocql.CounterBatch
	default:
		return gocql.LoggedBatch
	}
}

type gocqlPrepared struct {
	session *gocql.Session
	cql     string
}

func (p *gocqlPrepared) CQL() string {
	return p.cql
}

func (p *gocqlPrepared) Exec(ctx context.Context, values ...any) error {
	return errors.WithStack(p.session.Query(p.cql, values...).WithContext(ctx).Exec())
}

func (p *gocqlPrepared) ExecAsync(ctx context.Context, values []any, done func(error)) {
	go func() {
		done(p.Exec(ctx, values...))
	}()
}

func (p *gocqlPrepared) Query(ctx context.Context, values ...any) Rows {
	return gocqlRows{iter: p.session.Query(p.cql, values...).WithContext(ctx).Iter()}
}

func (p *gocqlPrepared) QueryAsync(ctx context.Context, values []any, done func(Rows, error)) {
	go func() {
		done(p.Query(ctx, values...), nil)
	}()
}

type gocqlRows struct {
	iter *gocql.Iter
}

func (r gocqlRows) MapScan(row map[string]any) bool {
	return r.iter.MapScan(row)
}

func (r gocqlRows) Close() error {
	return errors.WithStack(r.iter.Close())
}

// observer logs failed statements and records execution latency for every
// query and batch the session runs.
type observer struct {
	logger   log.Logger
	duration *prometheus.HistogramVec
}

func newObserver(logger log.Logger, reg prometheus.Registerer) observer {
	return observer{
		logger: logger,
		duration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cqlbind",
			Name:      "query_duration_seconds",
			Help:      "Time spent executing CQL queries and batches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}

func (o observer) ObserveQuery(_ context.Context, q gocql.ObservedQuery) {
	o.duration.WithLabelValues("query").Observe(q.End.Sub(q.Start).Seconds())
	if q.Err != nil {
		level.Warn(o.logger).Log("msg", "query failed", "statement", q.Statement, "err", q.Err)
	}
}

func (o observer) ObserveBatch(_ context.Context, b gocql.ObservedBatch) {
	o.duration.WithLabelValues("batch").Observe(b.End.Sub(b.Start).Seconds())
	if b.Err != nil {
		level.Warn(o.logger).Log("msg", "batch failed", "statements", len(b.Statements), "err", b.Err)
	}
}

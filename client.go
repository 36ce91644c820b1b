package cqlbind

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
)

const defaultCacheSize = 1024

// Client issues statements against one session, sharing a single statement
// cache across every table created from it. It is safe for concurrent use.
type Client struct {
	session  Session
	cache    *statementCache
	keyspace string
}

// Option configures a Client.
type Option func(*options)

type options struct {
	cacheSize int
	logger    log.Logger
	registry  prometheus.Registerer
}

// WithCacheSize bounds the number of prepared statements kept by the client.
// The least recently used statement is evicted once the bound is exceeded;
// re-preparing an evicted statement is safe because the same shape always
// regenerates the same text.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics registers the client's statement cache metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// NewClient wraps session for the given keyspace.
func NewClient(session Session, keyspace string, opts ...Option) (*Client, error) {
	o := options{
		cacheSize: defaultCacheSize,
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	cache, err := newStatementCache(session, o.cacheSize, o.logger, newMetrics(o.registry))
	if err != nil {
		return nil, err
	}
	return &Client{
		session:  session,
		cache:    cache,
		keyspace: keyspace,
	}, nil
}

// Exec runs caller-supplied CQL directly, binding values positionally.
func (c *Client) Exec(ctx context.Context, cql string, values ...any) error {
	return c.session.Exec(ctx, cql, values...)
}

// Query runs caller-supplied CQL directly and returns the rows as maps keyed
// by column name.
func (c *Client) Query(ctx context.Context, cql string, values ...any) ([]map[string]any, error) {
	rows := c.session.Query(ctx, cql, values...)
	var out []map[string]any
	for {
		row := map[string]any{}
		if !rows.MapScan(row) {
			break
		}
		out = append(out, row)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return out, nil
}

// Batch generates each entry's statement in input order and submits the
// result as one composite. A failure building any entry aborts the whole
// batch before anything reaches the session.
func (c *Client) Batch(ctx context.Context, kind BatchKind, entries ...BatchEntry) error {
	items, err := composeBatch(entries)
	if err != nil {
		return err
	}
	return c.session.Batch(ctx, kind, items)
}

// BatchAsync is Batch with the result delivered as a future.
func (c *Client) BatchAsync(ctx context.Context, kind BatchKind, entries ...BatchEntry) *Future[struct{}] {
	items, err := composeBatch(entries)
	if err != nil {
		return failedFuture[struct{}](err)
	}
	f := newFuture[struct{}]()
	c.session.BatchAsync(ctx, kind, items, func(err error) {
		f.resolve(struct{}{}, err)
	})
	return f
}

// Close closes the underlying session. Prepared statements owned by the
// cache die with it.
func (c *Client) Close() {
	c.session.Close()
}

package cqlbind

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// statementCache maps statement shapes to prepared handles. Cache hits read
// straight from the LRU; first use of a key goes through singleflight so
// concurrent callers racing on the same shape share a single Prepare round
// trip, while callers on different keys never block each other. A failed
// Prepare stores nothing, so the next caller with that key retries.
type statementCache struct {
	session Session
	lru     *lru.Cache[shapeKey, Prepared]
	group   singleflight.Group
	logger  log.Logger
	metrics *metrics
}

func newStatementCache(session Session, size int, logger log.Logger, m *metrics) (*statementCache, error) {
	l, err := lru.New[shapeKey, Prepared](size)
	if err != nil {
		return nil, err
	}
	return &statementCache{session: session, lru: l, logger: logger, metrics: m}, nil
}

// getOrPrepare returns the prepared statement for key, generating its text
// with build and preparing it on first use. build is invoked at most once
// per key even under concurrent first use.
func (c *statementCache) getOrPrepare(ctx context.Context, key shapeKey, build func() (string, error)) (Prepared, error) {
	if ps, ok := c.lru.Get(key); ok {
		c.metrics.cacheHits.Inc()
		return ps, nil
	}
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// A racer may have finished preparing while we waited our turn.
		if ps, ok := c.lru.Get(key); ok {
			c.metrics.cacheHits.Inc()
			return ps, nil
		}
		cql, err := build()
		if err != nil {
			return nil, err
		}
		ps, err := c.session.Prepare(ctx, cql)
		if err != nil {
			c.metrics.prepareFails.Inc()
			return nil, err
		}
		c.metrics.cacheMisses.Inc()
		c.lru.Add(key, ps)
		level.Debug(c.logger).Log("msg", "prepared statement", "cql", cql)
		return ps, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Prepared), nil
}

func (c *statementCache) len() int {
	return c.lru.Len()
}

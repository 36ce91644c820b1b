package cqlbind

import (
	"context"
	"sync"
)

// fakeSession records every prepare, execution and batch so tests can assert
// on generated text, bind order and compile counts without a cluster.
type fakeSession struct {
	mu         sync.Mutex
	prepared   []string
	execs      []statementCall
	bound      []statementCall
	batches    []batchCall
	rows       []map[string]any
	prepareErr error
	execErr    error
	batchErr   error
	closed     bool
}

type statementCall struct {
	cql    string
	values []any
}

type batchCall struct {
	kind  BatchKind
	items []BatchItem
}

func (s *fakeSession) Exec(_ context.Context, cql string, values ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execs = append(s.execs, statementCall{cql: cql, values: values})
	return s.execErr
}

func (s *fakeSession) Query(_ context.Context, cql string, values ...any) Rows {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bound = append(s.bound, statementCall{cql: cql, values: values})
	return &fakeRows{rows: s.rows}
}

func (s *fakeSession) Prepare(_ context.Context, cql string) (Prepared, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prepareErr != nil {
		return nil, s.prepareErr
	}
	s.prepared = append(s.prepared, cql)
	return &fakePrepared{session: s, cql: cql}, nil
}

func (s *fakeSession) Batch(_ context.Context, kind BatchKind, items []BatchItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batchCall{kind: kind, items: items})
	return s.batchErr
}

func (s *fakeSession) BatchAsync(ctx context.Context, kind BatchKind, items []BatchItem, done func(error)) {
	done(s.Batch(ctx, kind, items))
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSession) prepareCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prepared)
}

func (s *fakeSession) lastBound() (statementCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bound) == 0 {
		return statementCall{}, false
	}
	return s.bound[len(s.bound)-1], true
}

type fakePrepared struct {
	session *fakeSession
	cql     string
}

func (p *fakePrepared) CQL() string {
	return p.cql
}

func (p *fakePrepared) Exec(_ context.Context, values ...any) error {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	p.session.bound = append(p.session.bound, statementCall{cql: p.cql, values: values})
	return p.session.execErr
}

func (p *fakePrepared) ExecAsync(ctx context.Context, values []any, done func(error)) {
	done(p.Exec(ctx, values...))
}

func (p *fakePrepared) Query(_ context.Context, values ...any) Rows {
	p.session.mu.Lock()
	defer p.session.mu.Unlock()
	p.session.bound = append(p.session.bound, statementCall{cql: p.cql, values: values})
	return &fakeRows{rows: p.session.rows}
}

func (p *fakePrepared) QueryAsync(ctx context.Context, values []any, done func(Rows, error)) {
	done(p.Query(ctx, values...), nil)
}

type fakeRows struct {
	rows     []map[string]any
	i        int
	closeErr error
}

func (r *fakeRows) MapScan(row map[string]any) bool {
	if r.i >= len(r.rows) {
		return false
	}
	for k, v := range r.rows[r.i] {
		row[k] = v
	}
	r.i++
	return true
}

func (r *fakeRows) Close() error {
	return r.closeErr
}

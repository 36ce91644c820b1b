package cqlbind

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the table from the codec's columns", func(t *testing.T) {
		tbl, session := newTestTable(t)

		if err := tbl.Create(ctx); err != nil {
			t.Fatalf("unexpected error creating table: %v", err)
		}

		if len(session.execs) != 1 {
			t.Fatalf("expected 1 execution, got %d", len(session.execs))
		}
		expected := "CREATE TABLE IF NOT EXISTS ks.t (id bigint, name text, joined timestamp, PRIMARY KEY ((id)))"
		if session.execs[0].cql != expected {
			t.Errorf("expected %q, got %q", expected, session.execs[0].cql)
		}
	})

	t.Run("groups partition keys and appends clustering keys", func(t *testing.T) {
		type event struct {
			Tenant Optional[string]    `cql:"tenant,partition"`
			Day    Optional[string]    `cql:"day,partition"`
			At     Optional[time.Time] `cql:"at,clustering"`
			Body   Optional[string]    `cql:"body"`
		}
		session := &fakeSession{}
		client, err := NewClient(session, "ks")
		if err != nil {
			t.Fatalf("unexpected error creating client: %v", err)
		}
		codec, err := NewStructCodec[event]()
		if err != nil {
			t.Fatalf("unexpected error creating codec: %v", err)
		}
		tbl := NewTable(client, "events", codec, WithTableProperties("CLUSTERING ORDER BY (at DESC)"))

		if err := tbl.Create(ctx); err != nil {
			t.Fatalf("unexpected error creating table: %v", err)
		}

		expected := "CREATE TABLE IF NOT EXISTS ks.events (tenant text, day text, at timestamp, body text, PRIMARY KEY ((tenant,day), at)) WITH CLUSTERING ORDER BY (at DESC)"
		if session.execs[0].cql != expected {
			t.Errorf("expected %q, got %q", expected, session.execs[0].cql)
		}
	})

	t.Run("a table without partition keys never reaches the session", func(t *testing.T) {
		type bare struct {
			Name Optional[string] `cql:"name"`
		}
		session := &fakeSession{}
		client, err := NewClient(session, "ks")
		if err != nil {
			t.Fatalf("unexpected error creating client: %v", err)
		}
		codec, err := NewStructCodec[bare]()
		if err != nil {
			t.Fatalf("unexpected error creating codec: %v", err)
		}
		tbl := NewTable(client, "bare", codec)

		if err := tbl.Create(ctx); !errors.Is(err, ErrPrimaryKeySize) {
			t.Errorf("expected ErrPrimaryKeySize, got %v", err)
		}
		if len(session.execs) != 0 {
			t.Errorf("expected no executions, got %d", len(session.execs))
		}
	})
}

func TestDrop(t *testing.T) {
	tbl, session := newTestTable(t)

	if err := tbl.Drop(context.Background()); err != nil {
		t.Fatalf("unexpected error dropping table: %v", err)
	}
	if expected := "DROP TABLE IF EXISTS ks.t"; session.execs[0].cql != expected {
		t.Errorf("expected %q, got %q", expected, session.execs[0].cql)
	}
}

func TestTruncate(t *testing.T) {
	tbl, session := newTestTable(t)

	if err := tbl.Truncate(context.Background()); err != nil {
		t.Fatalf("unexpected error truncating table: %v", err)
	}
	if expected := "TRUNCATE ks.t"; session.execs[0].cql != expected {
		t.Errorf("expected %q, got %q", expected, session.execs[0].cql)
	}
}

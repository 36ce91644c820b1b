package cqlbind

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("generates an insert over the set columns", func(t *testing.T) {
		tbl, session := newTestTable(t)

		err := tbl.Insert(ctx, user{ID: Some(int64(1)), Name: Some("a")})
		if err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}

		call, ok := session.lastBound()
		if !ok {
			t.Fatal("expected a statement execution")
		}
		if expected := "INSERT INTO ks.t (id,name) VALUES (?,?)"; call.cql != expected {
			t.Errorf("expected %q, got %q", expected, call.cql)
		}
		if expected := []any{int64(1), "a"}; !reflect.DeepEqual(call.values, expected) {
			t.Errorf("expected values %#v, got %#v", expected, call.values)
		}
	})

	t.Run("reuses the prepared statement for a second record", func(t *testing.T) {
		tbl, session := newTestTable(t)

		if err := tbl.Insert(ctx, user{ID: Some(int64(1)), Name: Some("a")}); err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}
		if err := tbl.Insert(ctx, user{ID: Some(int64(2)), Name: Some("b")}); err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}

		if session.prepareCount() != 1 {
			t.Errorf("expected 1 prepare, got %d", session.prepareCount())
		}
		call, _ := session.lastBound()
		if expected := []any{int64(2), "b"}; !reflect.DeepEqual(call.values, expected) {
			t.Errorf("expected values %#v, got %#v", expected, call.values)
		}
	})

	t.Run("different column sets prepare different statements", func(t *testing.T) {
		tbl, session := newTestTable(t)

		if err := tbl.Insert(ctx, user{ID: Some(int64(1)), Name: Some("a")}); err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}
		if err := tbl.Insert(ctx, user{ID: Some(int64(2))}); err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}

		if session.prepareCount() != 2 {
			t.Errorf("expected 2 prepares, got %d", session.prepareCount())
		}
		call, _ := session.lastBound()
		if expected := "INSERT INTO ks.t (id) VALUES (?)"; call.cql != expected {
			t.Errorf("expected %q, got %q", expected, call.cql)
		}
	})

	t.Run("explicit nulls are bound, not skipped", func(t *testing.T) {
		tbl, session := newTestTable(t)

		if err := tbl.Insert(ctx, user{ID: Some(int64(1)), Name: Null[string]()}); err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}

		call, _ := session.lastBound()
		if expected := "INSERT INTO ks.t (id,name) VALUES (?,?)"; call.cql != expected {
			t.Errorf("expected %q, got %q", expected, call.cql)
		}
		if expected := []any{int64(1), nil}; !reflect.DeepEqual(call.values, expected) {
			t.Errorf("expected values %#v, got %#v", expected, call.values)
		}
	})

	t.Run("a fully unset record is rejected before the session", func(t *testing.T) {
		tbl, session := newTestTable(t)

		err := tbl.Insert(ctx, user{})
		if !errors.Is(err, ErrNoColumns) {
			t.Errorf("expected ErrNoColumns, got %v", err)
		}
		if session.prepareCount() != 0 {
			t.Errorf("expected no prepares, got %d", session.prepareCount())
		}
	})
}

func TestInsertAsync(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves after the statement executes", func(t *testing.T) {
		tbl, session := newTestTable(t)

		f := tbl.InsertAsync(ctx, user{ID: Some(int64(1)), Name: Some("a")})
		if _, err := f.Get(ctx); err != nil {
			t.Fatalf("unexpected error from future: %v", err)
		}

		call, ok := session.lastBound()
		if !ok {
			t.Fatal("expected a statement execution")
		}
		if expected := "INSERT INTO ks.t (id,name) VALUES (?,?)"; call.cql != expected {
			t.Errorf("expected %q, got %q", expected, call.cql)
		}
	})

	t.Run("resolves to a failure when execution fails", func(t *testing.T) {
		tbl, session := newTestTable(t)
		session.execErr = errors.New("unavailable")

		f := tbl.InsertAsync(ctx, user{ID: Some(int64(1))})
		if _, err := f.Get(ctx); err == nil {
			t.Error("expected an error from the future")
		}
	})

	t.Run("resolves to a failure before submission on bad input", func(t *testing.T) {
		tbl, _ := newTestTable(t)

		f := tbl.InsertAsync(ctx, user{})
		if _, err := f.Get(ctx); !errors.Is(err, ErrNoColumns) {
			t.Errorf("expected ErrNoColumns, got %v", err)
		}
	})
}

func TestInsertRaw(t *testing.T) {
	ctx := context.Background()

	t.Run("passes text through verbatim and caches it by text", func(t *testing.T) {
		tbl, session := newTestTable(t)

		cql := "INSERT INTO ks.t (id,name) VALUES (?,?) USING TTL 60"
		if err := tbl.InsertRaw(ctx, cql, int64(1), "a"); err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}
		if err := tbl.InsertRaw(ctx, cql, int64(2), "b"); err != nil {
			t.Fatalf("unexpected error inserting: %v", err)
		}

		if session.prepareCount() != 1 {
			t.Errorf("expected 1 prepare, got %d", session.prepareCount())
		}
		call, _ := session.lastBound()
		if call.cql != cql {
			t.Errorf("expected %q, got %q", cql, call.cql)
		}
		if expected := []any{int64(2), "b"}; !reflect.DeepEqual(call.values, expected) {
			t.Errorf("expected values %#v, got %#v", expected, call.values)
		}
	})
}

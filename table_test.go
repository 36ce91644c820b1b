package cqlbind

import (
	"testing"
	"time"
)

// user mirrors the shape used throughout the operation tests: a partition
// key plus regular columns, all Optional so tests can leave columns unset.
type user struct {
	ID     Optional[int64]     `cql:"id,partition"`
	Name   Optional[string]    `cql:"name"`
	Joined Optional[time.Time] `cql:"joined"`
}

func newTestTable(t *testing.T, opts ...TableOption) (*Table[user], *fakeSession) {
	t.Helper()
	session := &fakeSession{}
	client, err := NewClient(session, "ks")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	codec, err := NewStructCodec[user]()
	if err != nil {
		t.Fatalf("unexpected error creating codec: %v", err)
	}
	return NewTable(client, "t", codec, opts...), session
}

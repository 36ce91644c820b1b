package cqlbind

import (
	"fmt"
	"sort"
	"strings"
)

// shapeKey identifies the structural form of a statement independently of
// the values bound into it: two statements with the same key share one
// prepared handle. Column names are canonicalized order-independently, but
// anything that changes the generated text (the set/predicate split of an
// update, a select's projection, limit and filtering flag, a raw statement's
// text) is part of the key so distinct statements never collapse.
type shapeKey struct {
	op        opKind
	table     string
	signature string
}

func (k shapeKey) String() string {
	return fmt.Sprintf("%d|%s|%s", k.op, k.table, k.signature)
}

func columnSignature(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func insertShapeKey(table string, names []string) shapeKey {
	return shapeKey{op: opInsert, table: table, signature: columnSignature(names)}
}

func updateShapeKey(table string, setNames, whereNames []string) shapeKey {
	return shapeKey{
		op:        opUpdate,
		table:     table,
		signature: "set:" + columnSignature(setNames) + ";where:" + columnSignature(whereNames),
	}
}

func deleteShapeKey(table string, whereNames []string) shapeKey {
	return shapeKey{op: opDelete, table: table, signature: columnSignature(whereNames)}
}

func selectShapeKey(table string, projection, whereNames []string, limit int, allowFiltering bool) shapeKey {
	return shapeKey{
		op:    opSelect,
		table: table,
		signature: fmt.Sprintf("proj:%s;where:%s;limit:%d;filter:%t",
			columnSignature(projection), columnSignature(whereNames), limit, allowFiltering),
	}
}

// rawShapeKey keys caller-supplied statements by their literal text.
func rawShapeKey(cql string) shapeKey {
	return shapeKey{op: opRaw, signature: cql}
}

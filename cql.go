package cqlbind

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPrimaryKeySize is returned when a table definition has no partition key
// columns, or more key columns than columns overall.
var ErrPrimaryKeySize = errors.New("invalid primary key size")

// ErrNoColumns is returned when a generated statement would have no columns
// to write or filter on, which is not valid CQL.
var ErrNoColumns = errors.New("statement has no columns")

type opKind uint8

const (
	opInsert opKind = iota + 1
	opUpdate
	opDelete
	opSelect
	opCreate
	opRaw
)

func qualifiedName(keyspace, table string) string {
	if keyspace == "" {
		return table
	}
	return keyspace + "." + table
}

// createTableCQL builds a CREATE TABLE statement. Partition key columns are
// grouped in their own parentheses, followed by clustering columns if any.
// props, if non-empty, is appended verbatim after WITH.
func createTableCQL(keyspace, table string, cols []Column, props string) (string, error) {
	var partition, clustering []string
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = c.Name + " " + c.Type
		switch c.Key {
		case KeyPartition:
			partition = append(partition, c.Name)
		case KeyClustering:
			clustering = append(clustering, c.Name)
		}
	}
	if len(partition) == 0 {
		return "", fmt.Errorf("%w: table %s has no partition key columns", ErrPrimaryKeySize, table)
	}
	if len(partition)+len(clustering) > len(cols) {
		return "", fmt.Errorf("%w: table %s has %d key columns but only %d columns", ErrPrimaryKeySize, table, len(partition)+len(clustering), len(cols))
	}

	pk := "(" + strings.Join(partition, ",") + ")"
	if len(clustering) > 0 {
		pk += ", " + strings.Join(clustering, ",")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (%s, PRIMARY KEY (%s))",
		qualifiedName(keyspace, table), strings.Join(defs, ", "), pk)
	if props != "" {
		b.WriteString(" WITH ")
		b.WriteString(props)
	}
	return b.String(), nil
}

func dropTableCQL(keyspace, table string) string {
	return "DROP TABLE IF EXISTS " + qualifiedName(keyspace, table)
}

func truncateCQL(keyspace, table string) string {
	return "TRUNCATE " + qualifiedName(keyspace, table)
}

// placeholders returns n comma-separated question marks.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func insertCQL(keyspace, table string, names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("%w: insert into %s", ErrNoColumns, table)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		qualifiedName(keyspace, table), strings.Join(names, ","), placeholders(len(names))), nil
}

// updateCQL builds an UPDATE statement. Placeholder order is all set columns
// first, then all predicate columns, matching the bind order used by Update.
func updateCQL(keyspace, table string, setNames, whereNames []string) (string, error) {
	if len(setNames) == 0 {
		return "", fmt.Errorf("%w: update %s has no set columns", ErrNoColumns, table)
	}
	if len(whereNames) == 0 {
		return "", fmt.Errorf("%w: update %s has no predicate columns", ErrNoColumns, table)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		qualifiedName(keyspace, table), assignments(setNames, ","), assignments(whereNames, " AND ")), nil
}

func deleteCQL(keyspace, table string, whereNames []string) (string, error) {
	if len(whereNames) == 0 {
		return "", fmt.Errorf("%w: delete from %s has no predicate columns", ErrNoColumns, table)
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s",
		qualifiedName(keyspace, table), assignments(whereNames, " AND ")), nil
}

// selectCQL builds a SELECT statement. The WHERE clause is omitted when the
// predicate has no columns, LIMIT is appended only for limit > 0, and ALLOW
// FILTERING only when requested.
func selectCQL(keyspace, table string, projection, whereNames []string, limit int, allowFiltering bool) (string, error) {
	if len(projection) == 0 {
		return "", fmt.Errorf("%w: select from %s has no projection", ErrNoColumns, table)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(projection, ","), qualifiedName(keyspace, table))
	if len(whereNames) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(assignments(whereNames, " AND "))
	}
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	if allowFiltering {
		b.WriteString(" ALLOW FILTERING")
	}
	return b.String(), nil
}

// assignments renders "name=?" pairs joined by sep.
func assignments(names []string, sep string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=?"
	}
	return strings.Join(parts, sep)
}

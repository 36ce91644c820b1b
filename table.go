package cqlbind

import (
	"context"
	"fmt"
)

// Table binds a Go type to a Cassandra table through its codec. All
// statement generation is cached on the client's statement cache, so two
// operations of the same shape share one prepared statement regardless of
// the records involved.
type Table[T any] struct {
	client *Client
	name   string
	codec  Codec[T]
	props  string

	allNames []string
}

// TableOption configures a Table.
type TableOption func(*tableOptions)

type tableOptions struct {
	props string
}

// WithTableProperties appends props verbatim to the WITH clause of the
// CREATE TABLE statement, e.g. "CLUSTERING ORDER BY (ts DESC)".
func WithTableProperties(props string) TableOption {
	return func(o *tableOptions) { o.props = props }
}

// NewTable binds name to codec on the client's keyspace.
func NewTable[T any](client *Client, name string, codec Codec[T], opts ...TableOption) *Table[T] {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}
	cols := codec.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return &Table[T]{
		client:   client,
		name:     name,
		codec:    codec,
		props:    o.props,
		allNames: names,
	}
}

// Name returns the keyspace-qualified table name.
func (t *Table[T]) Name() string {
	return qualifiedName(t.client.keyspace, t.name)
}

// Create creates the table from the codec's column definitions. Schema
// errors such as a missing partition key are returned before anything is
// sent to the session.
func (t *Table[T]) Create(ctx context.Context) error {
	cql, err := createTableCQL(t.client.keyspace, t.name, t.codec.Columns(), t.props)
	if err != nil {
		return err
	}
	return t.client.session.Exec(ctx, cql)
}

// Drop drops the table.
func (t *Table[T]) Drop(ctx context.Context) error {
	return t.client.session.Exec(ctx, dropTableCQL(t.client.keyspace, t.name))
}

// Truncate removes all rows from the table.
func (t *Table[T]) Truncate(ctx context.Context) error {
	return t.client.session.Exec(ctx, truncateCQL(t.client.keyspace, t.name))
}

// encodeClean encodes rec and drops unset columns.
func (t *Table[T]) encodeClean(rec T) (names []string, args []any, err error) {
	vs, err := t.codec.Encode(rec)
	if err != nil {
		return nil, nil, err
	}
	names, args = cleanValues(vs)
	return names, args, nil
}

func (t *Table[T]) insertStatement(ctx context.Context, rec T) (Prepared, []any, error) {
	names, args, err := t.encodeClean(rec)
	if err != nil {
		return nil, nil, err
	}
	ps, err := t.client.cache.getOrPrepare(ctx, insertShapeKey(t.Name(), names), func() (string, error) {
		return insertCQL(t.client.keyspace, t.name, names)
	})
	if err != nil {
		return nil, nil, err
	}
	return ps, args, nil
}

// Insert writes rec to the table. Unset Optional columns are omitted from
// the statement; explicit nulls are written.
func (t *Table[T]) Insert(ctx context.Context, rec T) error {
	ps, args, err := t.insertStatement(ctx, rec)
	if err != nil {
		return err
	}
	return ps.Exec(ctx, args...)
}

// InsertAsync is Insert with the result delivered as a future.
func (t *Table[T]) InsertAsync(ctx context.Context, rec T) *Future[struct{}] {
	ps, args, err := t.insertStatement(ctx, rec)
	if err != nil {
		return failedFuture[struct{}](err)
	}
	f := newFuture[struct{}]()
	ps.ExecAsync(ctx, args, func(err error) {
		f.resolve(struct{}{}, err)
	})
	return f
}

// Update sets the columns present in set on the rows matched by the columns
// present in where. Values are bound set columns first, then predicate
// columns. An update with no set columns or no predicate columns fails with
// ErrNoColumns.
func (t *Table[T]) Update(ctx context.Context, set, where T) error {
	setNames, setArgs, err := t.encodeClean(set)
	if err != nil {
		return err
	}
	whereNames, whereArgs, err := t.encodeClean(where)
	if err != nil {
		return err
	}
	ps, err := t.client.cache.getOrPrepare(ctx, updateShapeKey(t.Name(), setNames, whereNames), func() (string, error) {
		return updateCQL(t.client.keyspace, t.name, setNames, whereNames)
	})
	if err != nil {
		return err
	}
	return ps.Exec(ctx, append(setArgs, whereArgs...)...)
}

func (t *Table[T]) deleteStatement(ctx context.Context, where T) (Prepared, []any, error) {
	names, args, err := t.encodeClean(where)
	if err != nil {
		return nil, nil, err
	}
	ps, err := t.client.cache.getOrPrepare(ctx, deleteShapeKey(t.Name(), names), func() (string, error) {
		return deleteCQL(t.client.keyspace, t.name, names)
	})
	if err != nil {
		return nil, nil, err
	}
	return ps, args, nil
}

// Delete removes the rows matched by the columns present in where.
func (t *Table[T]) Delete(ctx context.Context, where T) error {
	ps, args, err := t.deleteStatement(ctx, where)
	if err != nil {
		return err
	}
	return ps.Exec(ctx, args...)
}

// DeleteAsync is Delete with the result delivered as a future.
func (t *Table[T]) DeleteAsync(ctx context.Context, where T) *Future[struct{}] {
	ps, args, err := t.deleteStatement(ctx, where)
	if err != nil {
		return failedFuture[struct{}](err)
	}
	f := newFuture[struct{}]()
	ps.ExecAsync(ctx, args, func(err error) {
		f.resolve(struct{}{}, err)
	})
	return f
}

// SelectOption configures a select.
type SelectOption func(*selectOptions)

type selectOptions struct {
	limit          int
	allowFiltering bool
}

// Limit caps the number of rows returned. A limit of zero means no LIMIT
// clause at all.
func Limit(n int) SelectOption {
	return func(o *selectOptions) { o.limit = n }
}

// AllowFiltering appends ALLOW FILTERING to the query.
func AllowFiltering() SelectOption {
	return func(o *selectOptions) { o.allowFiltering = true }
}

func (t *Table[T]) selectStatement(ctx context.Context, projection []string, where T, opts []SelectOption) (Prepared, []any, error) {
	var o selectOptions
	for _, opt := range opts {
		opt(&o)
	}
	whereNames, whereArgs, err := t.encodeClean(where)
	if err != nil {
		return nil, nil, err
	}
	key := selectShapeKey(t.Name(), projection, whereNames, o.limit, o.allowFiltering)
	ps, err := t.client.cache.getOrPrepare(ctx, key, func() (string, error) {
		return selectCQL(t.client.keyspace, t.name, projection, whereNames, o.limit, o.allowFiltering)
	})
	if err != nil {
		return nil, nil, err
	}
	return ps, whereArgs, nil
}

func (t *Table[T]) decodeRows(rows Rows) ([]T, error) {
	var out []T
	for {
		row := map[string]any{}
		if !rows.MapScan(row) {
			break
		}
		rec, err := t.codec.Decode(row)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.Name(), err)
	}
	return out, nil
}

// Select returns all rows matched by the columns present in where, projected
// over every column of the codec. A where record with no set columns selects
// the whole table.
func (t *Table[T]) Select(ctx context.Context, where T, opts ...SelectOption) ([]T, error) {
	return t.selectColumns(ctx, t.allNames, where, opts)
}

// SelectAsync is Select with the result delivered as a future.
func (t *Table[T]) SelectAsync(ctx context.Context, where T, opts ...SelectOption) *Future[[]T] {
	return t.selectColumnsAsync(ctx, t.allNames, where, opts)
}

// SelectColumns is Select with the projection reduced to the named columns.
// Unprojected fields of the decoded records keep their zero values.
func (t *Table[T]) SelectColumns(ctx context.Context, columns []string, where T, opts ...SelectOption) ([]T, error) {
	return t.selectColumns(ctx, columns, where, opts)
}

// SelectColumnsAsync is SelectColumns with the result delivered as a future.
func (t *Table[T]) SelectColumnsAsync(ctx context.Context, columns []string, where T, opts ...SelectOption) *Future[[]T] {
	return t.selectColumnsAsync(ctx, columns, where, opts)
}

func (t *Table[T]) selectColumns(ctx context.Context, projection []string, where T, opts []SelectOption) ([]T, error) {
	ps, args, err := t.selectStatement(ctx, projection, where, opts)
	if err != nil {
		return nil, err
	}
	return t.decodeRows(ps.Query(ctx, args...))
}

func (t *Table[T]) selectColumnsAsync(ctx context.Context, projection []string, where T, opts []SelectOption) *Future[[]T] {
	ps, args, err := t.selectStatement(ctx, projection, where, opts)
	if err != nil {
		return failedFuture[[]T](err)
	}
	f := newFuture[[]T]()
	ps.QueryAsync(ctx, args, func(rows Rows, err error) {
		if err != nil {
			f.resolve(nil, err)
			return
		}
		recs, err := t.decodeRows(rows)
		f.resolve(recs, err)
	})
	return f
}

// SelectOne returns the first row matched by where, with ok false when no
// row matched.
func (t *Table[T]) SelectOne(ctx context.Context, where T, opts ...SelectOption) (rec T, ok bool, err error) {
	recs, err := t.Select(ctx, where, append(opts, Limit(1))...)
	if err != nil {
		return rec, false, err
	}
	if len(recs) == 0 {
		return rec, false, nil
	}
	return recs[0], true, nil
}

// SelectOneAsync is SelectOne with the result delivered as a future. The
// resolved Optional is unset when no row matched.
func (t *Table[T]) SelectOneAsync(ctx context.Context, where T, opts ...SelectOption) *Future[Optional[T]] {
	inner := t.SelectAsync(ctx, where, append(opts, Limit(1))...)
	f := newFuture[Optional[T]]()
	go func() {
		recs, err := inner.Get(context.Background())
		if err != nil || len(recs) == 0 {
			f.resolve(Optional[T]{}, err)
			return
		}
		f.resolve(Some(recs[0]), nil)
	}()
	return f
}

// InsertRaw executes caller-supplied insert CQL, binding values
// positionally. The statement is cached by its literal text.
func (t *Table[T]) InsertRaw(ctx context.Context, cql string, values ...any) error {
	return t.execRaw(ctx, cql, values)
}

// DeleteRaw executes caller-supplied delete CQL, binding values positionally.
func (t *Table[T]) DeleteRaw(ctx context.Context, cql string, values ...any) error {
	return t.execRaw(ctx, cql, values)
}

func (t *Table[T]) execRaw(ctx context.Context, cql string, values []any) error {
	ps, err := t.client.cache.getOrPrepare(ctx, rawShapeKey(cql), func() (string, error) {
		return cql, nil
	})
	if err != nil {
		return err
	}
	return ps.Exec(ctx, values...)
}

// SelectRaw runs caller-supplied select CQL and decodes the rows through the
// table's codec. Columns absent from the projection keep their zero values.
func (t *Table[T]) SelectRaw(ctx context.Context, cql string, values ...any) ([]T, error) {
	ps, err := t.client.cache.getOrPrepare(ctx, rawShapeKey(cql), func() (string, error) {
		return cql, nil
	})
	if err != nil {
		return nil, err
	}
	return t.decodeRows(ps.Query(ctx, values...))
}

// insertItem, updateItem and deleteItem generate uncached statement text for
// batch composition; gocql keeps its own prepared cache for batch entries.

func (t *Table[T]) insertItem(rec T) (BatchItem, error) {
	names, args, err := t.encodeClean(rec)
	if err != nil {
		return BatchItem{}, err
	}
	cql, err := insertCQL(t.client.keyspace, t.name, names)
	if err != nil {
		return BatchItem{}, err
	}
	return BatchItem{CQL: cql, Values: args}, nil
}

func (t *Table[T]) updateItem(set, where T) (BatchItem, error) {
	setNames, setArgs, err := t.encodeClean(set)
	if err != nil {
		return BatchItem{}, err
	}
	whereNames, whereArgs, err := t.encodeClean(where)
	if err != nil {
		return BatchItem{}, err
	}
	cql, err := updateCQL(t.client.keyspace, t.name, setNames, whereNames)
	if err != nil {
		return BatchItem{}, err
	}
	return BatchItem{CQL: cql, Values: append(setArgs, whereArgs...)}, nil
}

func (t *Table[T]) deleteItem(where T) (BatchItem, error) {
	names, args, err := t.encodeClean(where)
	if err != nil {
		return BatchItem{}, err
	}
	cql, err := deleteCQL(t.client.keyspace, t.name, names)
	if err != nil {
		return BatchItem{}, err
	}
	return BatchItem{CQL: cql, Values: args}, nil
}

package cqlbind

// KeyKind is the role a column plays in the table's primary key.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyPartition
	KeyClustering
)

// Column describes one column of a table: its name, CQL type, and role in
// the primary key. The order of columns matters: it is the order used for
// CREATE TABLE and for full-record projections.
type Column struct {
	Name string
	Type string
	Key  KeyKind
}

// Value is a single encoded column value. Unset values are dropped from
// generated statements entirely; a set Value with a nil V binds an explicit
// null, which is not the same thing.
type Value struct {
	Name string
	V    any
	Set  bool
}

// Codec converts between a Go type and its table columns.
//
// Encode returns one Value per column, in the same order as Columns. Decode
// populates a record from a row keyed by column name; columns missing from
// the row are left at their zero value.
type Codec[T any] interface {
	Columns() []Column
	Encode(v T) ([]Value, error)
	Decode(row map[string]any) (T, error)
}

// cleanValues splits encoded values into parallel column-name and bind-value
// slices, dropping unset columns. The two slices are always the same length,
// and position i of each refers to the same column.
func cleanValues(vs []Value) (names []string, args []any) {
	names = make([]string, 0, len(vs))
	args = make([]any, 0, len(vs))
	for _, v := range vs {
		if !v.Set {
			continue
		}
		names = append(names, v.Name)
		args = append(args, v.V)
	}
	return names, args
}

const (
	optUnset = iota
	optNull
	optSet
)

// Optional is a three-state column value: unset (the zero value), null, or
// set. An unset column is omitted from generated statements; a null column
// is bound as an explicit null.
type Optional[T any] struct {
	v     T
	state uint8
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{v: v, state: optSet}
}

// Null returns an Optional that binds an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{state: optNull}
}

// Get returns the value and whether one was set. Null and unset both return
// ok false; use IsNull to tell them apart.
func (o Optional[T]) Get() (v T, ok bool) {
	if o.state != optSet {
		var zero T
		return zero, false
	}
	return o.v, true
}

// IsNull reports whether the value is an explicit null.
func (o Optional[T]) IsNull() bool {
	return o.state == optNull
}

// columnValue reports the bind value for the column and whether the column
// is set at all. Explicit nulls are (nil, true); unset is (nil, false).
func (o Optional[T]) columnValue() (any, bool) {
	switch o.state {
	case optSet:
		return o.v, true
	case optNull:
		return nil, true
	default:
		return nil, false
	}
}

func (o *Optional[T]) setColumnValue(v any) error {
	if v == nil {
		*o = Null[T]()
		return nil
	}
	tv, err := convertValue[T](v)
	if err != nil {
		return err
	}
	*o = Some(tv)
	return nil
}

// columnValuer is implemented by Optional so the struct codec can tell set,
// null and unset fields apart without knowing the element type.
type columnValuer interface {
	columnValue() (any, bool)
}

type columnSetter interface {
	setColumnValue(v any) error
}

package cqlbind

import (
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"
)

// StructCodec is a Codec derived from the exported fields of a struct type
// using the `cql` tag:
//
//	type User struct {
//		ID    int64             `cql:"id,partition"`
//		Email string            `cql:"email,clustering"`
//		Name  string            `cql:"name"`
//		Bio   Optional[string]  `cql:"bio"`
//		Joined time.Time        `cql:"joined,type=timestamp"`
//	}
//
// Untagged fields map to the snake_case of the field name; `cql:"-"` skips a
// field. The CQL type is inferred from the Go type and can be overridden
// with `type=`. Optional fields distinguish unset columns (omitted from
// writes) from explicit nulls.
type StructCodec[T any] struct {
	columns []Column
	fields  []int
}

// NewStructCodec derives a codec for T, which must be a struct type. It
// fails if a field's CQL type cannot be inferred and no type override is
// given.
func NewStructCodec[T any]() (*StructCodec[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("codec: %s is not a struct", t)
	}
	c := &StructCodec[T]{}
	seen := map[string]bool{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		col, err := columnForField(f)
		if err != nil {
			return nil, err
		}
		if col.Name == "" {
			continue
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("codec: %s: duplicate column %q", t, col.Name)
		}
		seen[col.Name] = true
		c.columns = append(c.columns, col)
		c.fields = append(c.fields, i)
	}
	if len(c.columns) == 0 {
		return nil, fmt.Errorf("codec: %s has no usable fields", t)
	}
	return c, nil
}

func columnForField(f reflect.StructField) (col Column, err error) {
	tag := f.Tag.Get("cql")
	if tag == "-" {
		return Column{}, nil
	}
	parts := strings.Split(tag, ",")
	col.Name = parts[0]
	if col.Name == "" {
		col.Name = toSnake(f.Name)
	}
	for _, p := range parts[1:] {
		switch {
		case p == "partition":
			col.Key = KeyPartition
		case p == "clustering":
			col.Key = KeyClustering
		case strings.HasPrefix(p, "type="):
			col.Type = strings.TrimPrefix(p, "type=")
		case p == "":
		default:
			return Column{}, fmt.Errorf("codec: field %s: unknown tag option %q", f.Name, p)
		}
	}
	if col.Type == "" {
		col.Type, err = cqlTypeOf(f.Type)
		if err != nil {
			return Column{}, fmt.Errorf("codec: field %s: %w", f.Name, err)
		}
	}
	return col, nil
}

var timeType = reflect.TypeOf(time.Time{})

// cqlTypeOf maps a Go type to the CQL type used in CREATE TABLE statements.
func cqlTypeOf(t reflect.Type) (string, error) {
	if gt, ok := reflect.New(t).Interface().(interface{ columnGoType() reflect.Type }); ok {
		return cqlTypeOf(gt.columnGoType())
	}
	if t == timeType {
		return "timestamp", nil
	}
	switch t.Kind() {
	case reflect.String:
		return "text", nil
	case reflect.Bool:
		return "boolean", nil
	case reflect.Int8, reflect.Int16:
		return "smallint", nil
	case reflect.Int32:
		return "int", nil
	case reflect.Int, reflect.Int64:
		return "bigint", nil
	case reflect.Float32:
		return "float", nil
	case reflect.Float64:
		return "double", nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "blob", nil
		}
	}
	return "", fmt.Errorf("no CQL type for Go type %s", t)
}

func (c *StructCodec[T]) Columns() []Column {
	return c.columns
}

func (c *StructCodec[T]) Encode(v T) ([]Value, error) {
	rv := reflect.ValueOf(v)
	out := make([]Value, len(c.columns))
	for i, col := range c.columns {
		fv := rv.Field(c.fields[i])
		if ov, ok := fv.Interface().(columnValuer); ok {
			val, set := ov.columnValue()
			out[i] = Value{Name: col.Name, V: val, Set: set}
			continue
		}
		out[i] = Value{Name: col.Name, V: fv.Interface(), Set: true}
	}
	return out, nil
}

func (c *StructCodec[T]) Decode(row map[string]any) (v T, err error) {
	rv := reflect.ValueOf(&v).Elem()
	for i, col := range c.columns {
		raw, ok := row[col.Name]
		if !ok {
			continue
		}
		fv := rv.Field(c.fields[i])
		if s, ok := fv.Addr().Interface().(columnSetter); ok {
			if err := s.setColumnValue(raw); err != nil {
				return v, fmt.Errorf("decode %s: %w", col.Name, err)
			}
			continue
		}
		if raw == nil {
			continue
		}
		if err := assignValue(fv, raw); err != nil {
			return v, fmt.Errorf("decode %s: %w", col.Name, err)
		}
	}
	return v, nil
}

func assignValue(dst reflect.Value, v any) error {
	sv := reflect.ValueOf(v)
	switch {
	case sv.Type().AssignableTo(dst.Type()):
		dst.Set(sv)
	case sv.Type().ConvertibleTo(dst.Type()):
		dst.Set(sv.Convert(dst.Type()))
	default:
		return fmt.Errorf("cannot assign %T to %s", v, dst.Type())
	}
	return nil
}

func convertValue[T any](v any) (T, error) {
	var zero T
	dst := reflect.ValueOf(&zero).Elem()
	if err := assignValue(dst, v); err != nil {
		return zero, err
	}
	return zero, nil
}

// columnGoType lets the codec infer the CQL type of an Optional from its
// element type.
func (o Optional[T]) columnGoType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func toSnake(name string) string {
	rs := []rune(name)
	var b strings.Builder
	for i, r := range rs {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(rs[i-1])
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

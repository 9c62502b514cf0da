package conversion

import (
	"fmt"
	"reflect"
)

// Record is implemented by types that declare their column order
// explicitly. Columns returns pointers to the fields in the same order as
// the columns of the originating query.
//
//	func (p *Person) Columns() []any {
//		return []any{&p.ID, &p.Name, &p.Score}
//	}
type Record interface {
	Columns() []any
}

type MaterializerOption func(*Materializer)

// WithStrictCoercion makes unsupported column conversions fail instead of
// leaving the field at its zero value.
func WithStrictCoercion() MaterializerOption {
	return func(m *Materializer) {
		m.coerce = CoerceStrict
	}
}

// Materializer turns positional rows into typed values. It holds no mutable
// state and is safe for concurrent use.
type Materializer struct {
	coerce func(any, reflect.Type) (any, error)
}

func NewMaterializer(opts ...MaterializerOption) *Materializer {
	m := &Materializer{
		coerce: Coerce,
	}
	for i := range opts {
		opts[i](m)
	}
	return m
}

// Shape returns the fields of a plain struct that take part in
// materialization: exported fields in declaration order, except those
// tagged `db:"-"`.
func Shape(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("db") == "-" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// Materialize builds a value of the target type from row. A pointer target
// type yields a pointer to a new value.
func (m *Materializer) Materialize(row []any, target reflect.Type) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &MaterializationError{Type: target, Cause: fmt.Errorf("%v", r)}
		}
	}()

	base := target
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	instance := reflect.New(base)

	slots, err := m.slots(instance, base)
	if err != nil {
		return nil, err
	}
	if len(slots) > len(row) {
		return nil, &SchemaMismatchError{Type: base, Fields: len(slots), Columns: len(row)}
	}
	for i, slot := range slots {
		value, err := m.coerce(row[i], slot.Type())
		if err != nil {
			return nil, &MaterializationError{Type: base, Cause: err}
		}
		if value == nil {
			slot.SetZero()
			continue
		}
		rv := reflect.ValueOf(value)
		if !rv.Type().AssignableTo(slot.Type()) {
			return nil, &NoMatchingConstructorError{
				Type:   base,
				Reason: fmt.Sprintf("column %d is %s, field is %s", i, rv.Type(), slot.Type()),
			}
		}
		slot.Set(rv)
	}

	if target.Kind() == reflect.Pointer {
		return instance.Interface(), nil
	}
	return instance.Elem().Interface(), nil
}

func (m *Materializer) slots(instance reflect.Value, base reflect.Type) ([]reflect.Value, error) {
	if record, ok := instance.Interface().(Record); ok {
		columns := record.Columns()
		slots := make([]reflect.Value, len(columns))
		for i, c := range columns {
			p := reflect.ValueOf(c)
			if p.Kind() != reflect.Pointer || p.IsNil() {
				return nil, &NoMatchingConstructorError{
					Type:   base,
					Reason: fmt.Sprintf("column %d is not a field pointer", i),
				}
			}
			slots[i] = p.Elem()
		}
		return slots, nil
	}
	if base.Kind() != reflect.Struct {
		return nil, &NoMatchingConstructorError{Type: base, Reason: "neither a struct nor a Record"}
	}
	fields := Shape(base)
	slots := make([]reflect.Value, len(fields))
	for i, f := range fields {
		slots[i] = instance.Elem().FieldByIndex(f.Index)
	}
	return slots, nil
}

// MaterializeScalar coerces the single column of a scalar query.
func (m *Materializer) MaterializeScalar(value any, target reflect.Type) (any, error) {
	return m.coerce(value, target)
}

func MaterializeTo[T any](m *Materializer, row []any) (T, error) {
	var zero T
	result, err := m.Materialize(row, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

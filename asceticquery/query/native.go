package query

import (
	"fmt"
	"reflect"
)

// Native executes SQL as written. Named parameters use the ":name" form.
type Native struct {
	base
	sql string
}

func newNative(f *Factory, sql string, resultType reflect.Type) *Native {
	q := &Native{
		base: newBase(f, resultType),
		sql:  sql,
	}
	q.render = q.renderWindow
	q.sender = q
	return q
}

func (q *Native) SQL() string {
	return q.sql
}

// ExecuteUpdate runs a statement that returns no rows and reports the number
// of affected rows.
func (q *Native) ExecuteUpdate() (int64, error) {
	return q.execute(nil)
}

// Scalar executes the query and coerces its single result to target.
func (q *Native) Scalar(target reflect.Type) (any, error) {
	value, err := q.SingleResult()
	if err != nil {
		return nil, err
	}
	return q.materializer.MaterializeScalar(value, target)
}

func (q *Native) renderWindow(w *window) (string, []any, error) {
	return renderText(q.sql, q.dialect, w)
}

func renderText(text string, dialect Dialect, w *window) (string, []any, error) {
	sql, args := rewriteNamedParameters(text)
	if w != nil {
		sql = fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, w.limit, w.offset)
	}
	sql, err := dialect.PlaceholderFormat().ReplacePlaceholders(sql)
	if err != nil {
		return "", nil, err
	}
	return sql, args, nil
}

func ScalarOf[T any](q *Native) (T, error) {
	var zero T
	value, err := q.Scalar(TypeOf[T]())
	if err != nil || value == nil {
		return zero, err
	}
	return cast[T](value)
}

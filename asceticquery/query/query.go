package query

import (
	"reflect"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/conversion"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
)

// Query is the execution surface shared by criteria, text and native
// queries.
type Query interface {
	SetParameter(name string, value any)
	SetTemporalParameter(name string, value time.Time, kind TemporalKind)
	SetHint(name string, value any)
	SingleResult() (any, error)
	ResultList() ([]any, error)
	ResultPage(pageNumber, pageSize int) ([]any, error)
}

type window struct {
	offset uint64
	limit  uint64
}

type renderFunc func(w *window) (sql string, args []any, err error)

// base carries parameters, hints and result mapping. The concrete query
// supplies render.
type base struct {
	session      session.DbSession
	dialect      Dialect
	materializer *conversion.Materializer
	resultType   reflect.Type
	params       map[string]any
	hints        map[string]any
	render       renderFunc
	onExecute    func()
	sender       any
}

func newBase(f *Factory, resultType reflect.Type) base {
	return base{
		session:      f.session,
		dialect:      f.dialect,
		materializer: f.materializer,
		resultType:   resultType,
		params:       make(map[string]any),
		hints:        make(map[string]any),
	}
}

func (q *base) SetParameter(name string, value any) {
	q.params[name] = value
}

func (q *base) SetTemporalParameter(name string, value time.Time, kind TemporalKind) {
	q.params[name] = temporalValue(value, kind)
}

func (q *base) SetHint(name string, value any) {
	q.hints[name] = value
}

func (q *base) ResultType() reflect.Type {
	return q.resultType
}

func (q *base) SingleResult() (any, error) {
	results, err := q.fetch(nil)
	if err != nil {
		return nil, err
	}
	switch len(results) {
	case 0:
		return nil, ErrNoResult
	case 1:
		return results[0], nil
	default:
		return nil, errors.Wrapf(ErrNonUniqueResult, "%d rows", len(results))
	}
}

func (q *base) ResultList() ([]any, error) {
	return q.fetch(nil)
}

// ResultPage returns the 1-based page of results.
func (q *base) ResultPage(pageNumber, pageSize int) ([]any, error) {
	if pageNumber < 1 || pageSize < 1 {
		return nil, errors.Wrapf(ErrInvalidPage, "page %d, size %d", pageNumber, pageSize)
	}
	return q.fetch(&window{
		offset: uint64((pageNumber - 1) * pageSize),
		limit:  uint64(pageSize),
	})
}

func (q *base) statement(w *window) (string, []any, error) {
	sql, args, err := q.render(w)
	if err != nil {
		return "", nil, err
	}
	args, err = bindParameters(args, q.params)
	if err != nil {
		return "", nil, err
	}
	return commentPrefix(q.hints) + sql, args, nil
}

func (q *base) connection() session.DbConnection {
	conn := q.session.Connection()
	if setter, ok := conn.(session.HintSetter); ok {
		for name, value := range q.hints {
			setter.SetHint(name, value)
		}
	}
	return conn
}

func (q *base) fetch(w *window) (results []any, err error) {
	if q.onExecute != nil {
		q.onExecute()
	}
	sql, args, err := q.statement(w)
	if err != nil {
		return nil, err
	}
	done, err := q.started(sql, args)
	if err != nil {
		return nil, err
	}
	defer func() { err = done(err) }()

	rows, err := q.connection().Query(sql, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = multierror.Append(err, closeErr).ErrorOrNil()
		}
	}()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		item, err := q.mapRow(values)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (q *base) execute(w *window) (affected int64, err error) {
	if q.onExecute != nil {
		q.onExecute()
	}
	sql, args, err := q.statement(w)
	if err != nil {
		return 0, err
	}
	done, err := q.started(sql, args)
	if err != nil {
		return 0, err
	}
	defer func() { err = done(err) }()

	result, err := q.connection().Exec(sql, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// mapRow passes rows through unchanged unless a result type was declared:
// a single column becomes the scalar, several columns stay a []any.
func (q *base) mapRow(values []any) (any, error) {
	if q.resultType != nil {
		if isScalarType(q.resultType) && len(values) > 0 {
			return q.materializer.MaterializeScalar(values[0], q.resultType)
		}
		return q.materializer.Materialize(values, q.resultType)
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return values, nil
}

func isScalarType(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(recordType) {
		return false
	}
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	if base.Kind() != reflect.Struct {
		return true
	}
	switch base {
	case timeType, decimalType, uuidType:
		return true
	}
	return reflect.PointerTo(base).Implements(scannerType)
}

func (q *base) started(sql string, args []any) (func(error) error, error) {
	startedAt := time.Now()
	err := q.session.OnQueryStarted().Notify(session.QueryStartedEvent{
		Query:   sql,
		Params:  args,
		Hints:   q.hints,
		Sender:  q.sender,
		Session: q.session,
	})
	if err != nil {
		return nil, err
	}
	return func(queryErr error) error {
		notifyErr := q.session.OnQueryEnded().Notify(session.QueryEndedEvent{
			Query:        sql,
			Params:       args,
			Hints:        q.hints,
			Sender:       q.sender,
			Session:      q.session,
			ResponseTime: time.Since(startedAt),
			Err:          queryErr,
		})
		if notifyErr != nil {
			return multierror.Append(queryErr, notifyErr).ErrorOrNil()
		}
		return queryErr
	}, nil
}

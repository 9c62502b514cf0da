package query

import (
	"database/sql"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/conversion"
)

var (
	recordType  = reflect.TypeOf((*conversion.Record)(nil)).Elem()
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
)

func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func ListOf[T any](q Query) ([]T, error) {
	items, err := q.ResultList()
	if err != nil {
		return nil, err
	}
	return castAll[T](items)
}

func PageOf[T any](q Query, pageNumber, pageSize int) ([]T, error) {
	items, err := q.ResultPage(pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	return castAll[T](items)
}

func SingleOf[T any](q Query) (T, error) {
	var zero T
	item, err := q.SingleResult()
	if err != nil {
		return zero, err
	}
	return cast[T](item)
}

func castAll[T any](items []any) ([]T, error) {
	result := make([]T, 0, len(items))
	for _, item := range items {
		v, err := cast[T](item)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

func cast[T any](item any) (T, error) {
	var zero T
	if item == nil {
		return zero, nil
	}
	v, ok := item.(T)
	if !ok {
		return zero, errors.Wrapf(ErrResultType, "%T is not %s", item, TypeOf[T]())
	}
	return v, nil
}

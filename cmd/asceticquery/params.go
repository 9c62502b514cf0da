package main

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/conversion"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/query"
)

const dateLayout = "2006-01-02"

// valueTypes are the type names accepted by --param and --type.
var valueTypes = map[string]reflect.Type{
	"string":  reflect.TypeOf(""),
	"int":     reflect.TypeOf(int64(0)),
	"float":   reflect.TypeOf(float64(0)),
	"decimal": reflect.TypeOf(decimal.Decimal{}),
	"time":    reflect.TypeOf(time.Time{}),
	"date":    reflect.TypeOf(time.Time{}),
	"uuid":    reflect.TypeOf(uuid.UUID{}),
	"ulid":    reflect.TypeOf(ulid.ULID{}),
}

func lookupType(name string) (reflect.Type, error) {
	t, found := valueTypes[name]
	if !found {
		return nil, errors.Errorf("unknown type %q", name)
	}
	return t, nil
}

type param struct {
	name     string
	value    any
	temporal *query.TemporalKind
}

// parseParam reads "name=value" or "name:type=value".
func parseParam(s string) (param, error) {
	key, raw, found := strings.Cut(s, "=")
	if !found || key == "" {
		return param{}, errors.Errorf("parameter %q is not name=value", s)
	}
	name, typeName, typed := strings.Cut(key, ":")
	if !typed {
		return param{name: name, value: raw}, nil
	}
	if typeName == "date" {
		day, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return param{}, errors.Wrapf(&conversion.ParseError{Input: raw, Layout: dateLayout, Err: err}, "parameter %q", name)
		}
		kind := query.TemporalDate
		return param{name: name, value: day, temporal: &kind}, nil
	}
	t, err := lookupType(typeName)
	if err != nil {
		return param{}, errors.Wrapf(err, "parameter %q", name)
	}
	value, err := conversion.CoerceStrict(raw, t)
	if err != nil {
		return param{}, errors.Wrapf(err, "parameter %q", name)
	}
	return param{name: name, value: value}, nil
}

func bindParams(q query.Query, raw []string) error {
	for _, s := range raw {
		p, err := parseParam(s)
		if err != nil {
			return err
		}
		if p.temporal != nil {
			q.SetTemporalParameter(p.name, p.value.(time.Time), *p.temporal)
			continue
		}
		q.SetParameter(p.name, p.value)
	}
	return nil
}

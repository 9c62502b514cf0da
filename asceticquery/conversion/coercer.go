package conversion

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DateTimeLayout is the only textual form accepted for time.Time targets.
const DateTimeLayout = "2006-01-02 15:04:05"

type Outcome int

const (
	// OutcomeConverted means the value was returned as is or converted.
	OutcomeConverted Outcome = iota
	// OutcomeNull means the source value was nil or SQL NULL.
	OutcomeNull
	// OutcomeUnsupported means no rule covers the pair of types; the value
	// is reported as nil.
	OutcomeUnsupported
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomeNull:
		return "null"
	case OutcomeUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	ulidType    = reflect.TypeOf(ulid.ULID{})
	bytesType   = reflect.TypeOf([]byte(nil))
	scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

// Coerce normalizes value into the target type. Nil yields nil for every
// target, and pairs no rule covers yield nil without an error.
func Coerce(value any, target reflect.Type) (any, error) {
	result, _, err := CoerceOutcome(value, target)
	return result, err
}

// CoerceStrict is Coerce that reports unsupported pairs as an error matching
// ErrUnsupported instead of nil.
func CoerceStrict(value any, target reflect.Type) (any, error) {
	result, outcome, err := CoerceOutcome(value, target)
	if err != nil {
		return nil, err
	}
	if outcome == OutcomeUnsupported {
		return nil, &UnsupportedConversionError{Source: reflect.TypeOf(value), Target: target}
	}
	return result, nil
}

func CoerceTo[T any](value any) (T, error) {
	var zero T
	result, err := Coerce(value, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil || result == nil {
		return zero, err
	}
	return result.(T), nil
}

func CoerceOutcome(value any, target reflect.Type) (any, Outcome, error) {
	if value == nil {
		return nil, OutcomeNull, nil
	}
	source := reflect.TypeOf(value)
	if source.AssignableTo(target) {
		return value, OutcomeConverted, nil
	}

	if target.Kind() == reflect.Pointer {
		result, outcome, err := CoerceOutcome(value, target.Elem())
		if err != nil || result == nil {
			return nil, outcome, err
		}
		p := reflect.New(target.Elem())
		p.Elem().Set(reflect.ValueOf(result))
		return p.Interface(), outcome, nil
	}
	if source.Kind() == reflect.Pointer {
		rv := reflect.ValueOf(value)
		if rv.IsNil() {
			return nil, OutcomeNull, nil
		}
		return CoerceOutcome(rv.Elem().Interface(), target)
	}

	if target == timeType {
		if t, valid, ok := sqlTemporal(value); ok {
			if !valid {
				return nil, OutcomeNull, nil
			}
			return time.UnixMilli(t), OutcomeConverted, nil
		}
	}
	if isNumericKind(target.Kind()) && isNumber(value) {
		return convertNumber(value, target), OutcomeConverted, nil
	}

	if valuer, ok := value.(driver.Valuer); ok {
		inner, err := valuer.Value()
		if err != nil {
			return nil, OutcomeUnsupported, errors.Wrapf(err, "cannot read %s", source)
		}
		if inner == nil {
			return nil, OutcomeNull, nil
		}
		if reflect.TypeOf(inner) != source {
			return CoerceOutcome(inner, target)
		}
	}

	switch {
	case isNumericKind(target.Kind()):
		result, err := parseNumber(stringForm(value), target)
		if err != nil {
			return nil, OutcomeUnsupported, err
		}
		return result, OutcomeConverted, nil
	case target == timeType:
		s := stringForm(value)
		t, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
		if err != nil {
			return nil, OutcomeUnsupported, &ParseError{Input: s, Layout: DateTimeLayout, Err: err}
		}
		return t, OutcomeConverted, nil
	case target == decimalType:
		return toDecimal(value, target)
	case target == uuidType:
		return toUUID(value)
	case target == ulidType:
		return toULID(value)
	case target.Kind() == reflect.String && source.ConvertibleTo(bytesType):
		b := reflect.ValueOf(value).Convert(bytesType).Bytes()
		return reflect.ValueOf(string(b)).Convert(target).Interface(), OutcomeConverted, nil
	case reflect.PointerTo(target).Implements(scannerType):
		p := reflect.New(target)
		if err := p.Interface().(sql.Scanner).Scan(value); err != nil {
			return nil, OutcomeUnsupported, errors.Wrapf(err, "cannot scan %s into %s", source, target)
		}
		return p.Elem().Interface(), OutcomeConverted, nil
	}
	return nil, OutcomeUnsupported, nil
}

// sqlTemporal extracts the epoch milliseconds of the SQL date and time
// variants a driver may return.
func sqlTemporal(value any) (millis int64, valid bool, ok bool) {
	switch v := value.(type) {
	case sql.NullTime:
		return v.Time.UnixMilli(), v.Valid, true
	case pgtype.Date:
		return v.Time.UnixMilli(), v.Valid, true
	case pgtype.Timestamp:
		return v.Time.UnixMilli(), v.Valid, true
	case pgtype.Timestamptz:
		return v.Time.UnixMilli(), v.Valid, true
	case pgtype.Time:
		return v.Microseconds / 1000, v.Valid, true
	}
	return 0, false, false
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isNumber(value any) bool {
	if _, ok := value.(decimal.Decimal); ok {
		return true
	}
	return isNumericKind(reflect.TypeOf(value).Kind())
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func convertNumber(value any, target reflect.Type) any {
	if d, ok := value.(decimal.Decimal); ok {
		if isFloatKind(target.Kind()) {
			return reflect.ValueOf(d.InexactFloat64()).Convert(target).Interface()
		}
		return reflect.ValueOf(d.IntPart()).Convert(target).Interface()
	}
	return reflect.ValueOf(value).Convert(target).Interface()
}

func parseNumber(s string, target reflect.Type) (any, error) {
	var parsed any
	var err error
	switch target.Kind() {
	case reflect.Float32, reflect.Float64:
		parsed, err = strconv.ParseFloat(strings.TrimSpace(s), target.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err = strconv.ParseUint(s, 10, target.Bits())
	default:
		parsed, err = strconv.ParseInt(s, 10, target.Bits())
	}
	if err != nil {
		return nil, &NumberFormatError{Input: s, Target: target, Err: err}
	}
	return reflect.ValueOf(parsed).Convert(target).Interface(), nil
}

func toDecimal(value any, target reflect.Type) (any, Outcome, error) {
	rv := reflect.ValueOf(value)
	switch {
	case rv.CanInt():
		return decimal.NewFromInt(rv.Int()), OutcomeConverted, nil
	case rv.CanUint():
		return decimal.NewFromUint64(rv.Uint()), OutcomeConverted, nil
	case rv.CanFloat():
		return decimal.NewFromFloat(rv.Float()), OutcomeConverted, nil
	}
	s := stringForm(value)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, OutcomeUnsupported, &NumberFormatError{Input: s, Target: target, Err: err}
	}
	return d, OutcomeConverted, nil
}

func toUUID(value any) (any, Outcome, error) {
	if b, ok := value.([]byte); ok && len(b) == 16 {
		id, err := uuid.FromBytes(b)
		if err != nil {
			return nil, OutcomeUnsupported, err
		}
		return id, OutcomeConverted, nil
	}
	s := stringForm(value)
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, OutcomeUnsupported, &ParseError{Input: s, Layout: "uuid", Err: err}
	}
	return id, OutcomeConverted, nil
}

func toULID(value any) (any, Outcome, error) {
	if b, ok := value.([]byte); ok && len(b) == len(ulid.ULID{}) {
		var id ulid.ULID
		copy(id[:], b)
		return id, OutcomeConverted, nil
	}
	s := stringForm(value)
	id, err := ulid.Parse(s)
	if err != nil {
		return nil, OutcomeUnsupported, &ParseError{Input: s, Layout: "ulid", Err: err}
	}
	return id, OutcomeConverted, nil
}

func stringForm(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

package conversion

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var ErrUnsupported = errors.New("unsupported conversion")

type NumberFormatError struct {
	Input  string
	Target reflect.Type
	Err    error
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Input, e.Target, e.Err)
}

func (e *NumberFormatError) Unwrap() error {
	return e.Err
}

type ParseError struct {
	Input  string
	Layout string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %q: %v", e.Input, e.Layout, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type UnsupportedConversionError struct {
	Source reflect.Type
	Target reflect.Type
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s to %s", e.Source, e.Target)
}

func (e *UnsupportedConversionError) Is(target error) bool {
	return target == ErrUnsupported
}

// SchemaMismatchError reports a row that has fewer columns than the target
// has fields.
type SchemaMismatchError struct {
	Type    reflect.Type
	Fields  int
	Columns int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("wrong number of columns for %s: %d fields, %d columns", e.Type, e.Fields, e.Columns)
}

type NoMatchingConstructorError struct {
	Type   reflect.Type
	Reason string
}

func (e *NoMatchingConstructorError) Error() string {
	return fmt.Sprintf("cannot construct %s: %s", e.Type, e.Reason)
}

type MaterializationError struct {
	Type  reflect.Type
	Cause error
}

func (e *MaterializationError) Error() string {
	return fmt.Sprintf("cannot materialize %s: %v", e.Type, e.Cause)
}

func (e *MaterializationError) Unwrap() error {
	return e.Cause
}

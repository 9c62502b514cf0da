package path

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoSource        = errors.New("no source registered")
	ErrBlankPath       = errors.New("path cannot be blank")
	ErrTooManySegments = errors.New("join path has more than 2 segments")
	ErrEmptySegment    = errors.New("path has an empty segment")
	ErrUnknownAlias    = errors.New("no source registered with the alias")
	ErrDuplicateAlias  = errors.New("alias already registered")
	ErrConfiguration   = errors.New("query has already been executed")
)

type InvalidPathError struct {
	Path   string
	Reason error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path %q: %v", e.Path, e.Reason)
}

func (e *InvalidPathError) Unwrap() error {
	return e.Reason
}

func invalidPath(path string, reason error) error {
	return &InvalidPathError{Path: path, Reason: reason}
}

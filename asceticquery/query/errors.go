package query

import (
	"github.com/pkg/errors"
)

var (
	ErrNoResult         = errors.New("query returned no result")
	ErrNonUniqueResult  = errors.New("query returned more than one result")
	ErrUnboundParameter = errors.New("parameter is not bound")
	ErrInvalidPage      = errors.New("page number and page size must be positive")
	ErrNoSource         = errors.New("query has no source")
	ErrResultType       = errors.New("result has an unexpected type")
	ErrShadowedAlias    = errors.New("alias of an enclosing query is shadowed by a subquery source")
)

package path

import (
	"github.com/pkg/errors"
)

// AliasTable is an insertion-ordered mapping from alias to source. The first
// entry is the default source for paths without an alias segment.
type AliasTable struct {
	order   []string
	sources map[string]Source
}

func NewAliasTable() *AliasTable {
	return &AliasTable{
		sources: make(map[string]Source),
	}
}

func (t *AliasTable) Len() int {
	return len(t.order)
}

func (t *AliasTable) Put(alias string, source Source) error {
	if _, found := t.sources[alias]; found {
		return errors.Wrapf(ErrDuplicateAlias, "%q", alias)
	}
	t.order = append(t.order, alias)
	t.sources[alias] = source
	return nil
}

func (t *AliasTable) Get(alias string) (Source, bool) {
	s, found := t.sources[alias]
	return s, found
}

func (t *AliasTable) First() (Source, bool) {
	if len(t.order) == 0 {
		return nil, false
	}
	return t.sources[t.order[0]], true
}

// Sources returns the sources in declaration order.
func (t *AliasTable) Sources() []Source {
	result := make([]Source, 0, len(t.order))
	for _, alias := range t.order {
		result = append(result, t.sources[alias])
	}
	return result
}

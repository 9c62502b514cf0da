package path

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/expression"
)

// Resolver registers queried sources under aliases and resolves dotted
// paths ("alias.attr.attr", or "attr.attr" against the default source)
// into attribute references.
type Resolver struct {
	table   *AliasTable
	factory SourceFactory
	parent  *Resolver
	sealed  bool
}

func NewResolver(factory SourceFactory) *Resolver {
	if factory == nil {
		factory = DefaultFactory{}
	}
	return &Resolver{
		table:   NewAliasTable(),
		factory: factory,
	}
}

// Auto aliases are derived from the size of the alias table.
const autoAliasFormat = "e%03d"

// NewScope returns a resolver for a nested query. Its auto aliases skip the
// aliases of every enclosing scope.
func (r *Resolver) NewScope(factory SourceFactory) *Resolver {
	scope := NewResolver(factory)
	scope.parent = r
	return scope
}

func (r *Resolver) finalAlias(alias string) string {
	alias = strings.TrimSpace(alias)
	if alias != "" {
		return alias
	}
	n := r.table.Len()
	if r.parent == nil {
		return fmt.Sprintf(autoAliasFormat, n)
	}
	for ; ; n++ {
		alias = fmt.Sprintf(autoAliasFormat, n)
		if !r.visible(alias) {
			return alias
		}
	}
}

// visible reports whether alias is registered in this scope or an enclosing
// one.
func (r *Resolver) visible(alias string) bool {
	for scope := r; scope != nil; scope = scope.parent {
		if _, found := scope.table.Get(alias); found {
			return true
		}
	}
	return false
}

func (r *Resolver) AddSource(entity, alias string) (string, error) {
	if r.sealed {
		return "", errors.Wrapf(ErrConfiguration, "cannot add source %q", entity)
	}
	alias = r.finalAlias(alias)
	if _, found := r.table.Get(alias); found {
		return "", errors.Wrapf(ErrDuplicateAlias, "%q", alias)
	}
	source, err := r.factory.NewRoot(entity, alias)
	if err != nil {
		return "", err
	}
	if err := r.table.Put(alias, source); err != nil {
		return "", err
	}
	return alias, nil
}

// AddJoin resolves path to a source and a single attribute, then registers
// the join of that attribute under the final alias.
func (r *Resolver) AddJoin(path, alias string, kind JoinKind) (string, error) {
	if r.sealed {
		return "", errors.Wrapf(ErrConfiguration, "cannot join %q", path)
	}
	alias = r.finalAlias(alias)
	segments, err := r.split(path)
	if err != nil {
		return "", err
	}
	if len(segments) > 2 {
		return "", invalidPath(path, ErrTooManySegments)
	}
	from, attributes, err := r.origin(path, segments)
	if err != nil {
		return "", err
	}
	if _, found := r.table.Get(alias); found {
		return "", errors.Wrapf(ErrDuplicateAlias, "%q", alias)
	}
	join, err := r.factory.NewJoin(from, attributes[0], kind, alias)
	if err != nil {
		return "", err
	}
	if err := r.table.Put(alias, join); err != nil {
		return "", err
	}
	return alias, nil
}

// Resolve does not validate that intermediate attributes are navigable;
// that surfaces when the statement is executed.
func (r *Resolver) Resolve(path string) (expression.FieldNode, error) {
	segments, err := r.split(path)
	if err != nil {
		return expression.FieldNode{}, err
	}
	from, attributes, err := r.origin(path, segments)
	if err != nil {
		return expression.FieldNode{}, err
	}
	var object expression.EmptiableObject = from
	for _, attribute := range attributes[:len(attributes)-1] {
		object = expression.Object(object, attribute)
	}
	return expression.Field(object, attributes[len(attributes)-1]), nil
}

func (r *Resolver) split(path string) ([]string, error) {
	if r.table.Len() == 0 {
		return nil, invalidPath(path, ErrNoSource)
	}
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, invalidPath(path, ErrBlankPath)
	}
	segments := strings.Split(trimmed, ".")
	for i, s := range segments {
		segments[i] = strings.TrimSpace(s)
		if segments[i] == "" {
			return nil, invalidPath(path, ErrEmptySegment)
		}
	}
	return segments, nil
}

// A single segment is always an attribute of the default source, never an
// alias.
func (r *Resolver) origin(path string, segments []string) (Source, []string, error) {
	if len(segments) == 1 {
		first, _ := r.table.First()
		return first, segments, nil
	}
	from, found := r.table.Get(segments[0])
	if !found {
		return nil, nil, invalidPath(path, errors.Wrapf(ErrUnknownAlias, "%q", segments[0]))
	}
	return from, segments[1:], nil
}

func (r *Resolver) Source(alias string) (Source, bool) {
	return r.table.Get(alias)
}

// Shadows reports whether this scope registered a different source under the
// alias of source.
func (r *Resolver) Shadows(source Source) bool {
	own, found := r.table.Get(source.Alias())
	return found && own != source
}

func (r *Resolver) Sources() []Source {
	return r.table.Sources()
}

func (r *Resolver) Len() int {
	return r.table.Len()
}

func (r *Resolver) Default() (Source, bool) {
	return r.table.First()
}

// Seal marks the owning query as executing. Later registrations fail with
// ErrConfiguration.
func (r *Resolver) Seal() {
	r.sealed = true
}

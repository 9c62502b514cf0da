package query

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/path"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
)

// entitySources is the path.SourceFactory of one query scope. It checks
// sources against the schema registry and remembers which entity each alias
// stands for.
type entitySources struct {
	path.DefaultFactory
	registry  *schema.Registry
	entities  map[string]*schema.Entity
	relations map[string]schema.Relation
}

func newEntitySources(registry *schema.Registry) *entitySources {
	return &entitySources{
		registry:  registry,
		entities:  make(map[string]*schema.Entity),
		relations: make(map[string]schema.Relation),
	}
}

func (s *entitySources) NewRoot(entity, alias string) (path.Source, error) {
	e, err := s.registry.Lookup(entity)
	if err != nil {
		return nil, err
	}
	s.entities[alias] = e
	return s.DefaultFactory.NewRoot(entity, alias)
}

func (s *entitySources) NewJoin(from path.Source, attribute string, kind path.JoinKind, alias string) (path.Source, error) {
	owner, found := s.entities[from.Alias()]
	if !found {
		return nil, errors.Errorf("source %q has no entity", from.Alias())
	}
	target, rel, err := s.registry.Navigate(owner, attribute)
	if err != nil {
		return nil, err
	}
	if len(rel.Columns) == 0 {
		return nil, errors.Errorf("relation %s.%s has no join columns", owner.Name, attribute)
	}
	s.entities[alias] = target
	s.relations[alias] = rel
	return s.DefaultFactory.NewJoin(from, attribute, kind, alias)
}

func (s *entitySources) table(source path.Source) string {
	return fmt.Sprintf("%s AS %s", s.entities[source.Alias()].Table, source.Alias())
}

// clause renders every source after the first as a join clause.
func (s *entitySources) clause(source path.Source) string {
	switch src := source.(type) {
	case *path.Join:
		rel := s.relations[src.Alias()]
		conditions := make([]string, len(rel.Columns))
		for i, pair := range rel.Columns {
			conditions[i] = fmt.Sprintf("%s.%s = %s.%s", src.Alias(), pair.TargetColumn, src.From().Alias(), pair.SourceColumn)
		}
		return fmt.Sprintf("%s JOIN %s ON %s", src.Kind(), s.table(src), strings.Join(conditions, " AND "))
	default:
		return "CROSS JOIN " + s.table(source)
	}
}

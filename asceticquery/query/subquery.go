package query

import (
	"github.com/Masterminds/squirrel"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/expression"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/path"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
)

// Subquery is a nested SELECT with its own alias scope. It is an expression
// itself and can be used with expression.Exists and expression.In. Outer
// query attributes may be referenced in its restrictions to correlate it.
// Auto aliases never repeat an alias of an enclosing query; referencing an
// outer source whose alias a subquery source reuses fails with
// ErrShadowedAlias.
type Subquery struct {
	selectStatement
	registry *schema.Registry
}

func newSubquery(registry *schema.Registry, parent *path.Resolver) *Subquery {
	return &Subquery{
		selectStatement: newNestedStatement(registry, parent),
		registry:        registry,
	}
}

func (s *Subquery) From(entity string, alias ...string) *Subquery {
	s.from(entity, alias)
	return s
}

func (s *Subquery) Join(attributePath, alias string, kind path.JoinKind) *Subquery {
	s.join(attributePath, alias, kind)
	return s
}

func (s *Subquery) InnerJoin(attributePath, alias string) *Subquery {
	return s.Join(attributePath, alias, path.InnerJoin)
}

func (s *Subquery) LeftJoin(attributePath, alias string) *Subquery {
	return s.Join(attributePath, alias, path.LeftJoin)
}

func (s *Subquery) RightJoin(attributePath, alias string) *Subquery {
	return s.Join(attributePath, alias, path.RightJoin)
}

func (s *Subquery) Select(selection expression.Visitable) *Subquery {
	s.selections = []expression.Visitable{selection}
	return s
}

func (s *Subquery) Distinct() *Subquery {
	s.distinct = true
	return s
}

func (s *Subquery) Count(x expression.Visitable) *Subquery {
	return s.Select(expression.Count(x))
}

func (s *Subquery) CountDistinct(x expression.Visitable) *Subquery {
	return s.Select(expression.CountDistinct(x))
}

func (s *Subquery) NewRestrictions() []expression.Visitable {
	return []expression.Visitable{}
}

func (s *Subquery) Where(restrictions ...expression.Visitable) *Subquery {
	s.restrictions = restrictions
	return s
}

func (s *Subquery) GroupBy(groupings ...expression.Visitable) *Subquery {
	s.groupings = groupings
	return s
}

func (s *Subquery) Having(restrictions ...expression.Visitable) *Subquery {
	s.having = restrictions
	return s
}

func (s *Subquery) Get(attributePath string) expression.FieldNode {
	return s.get(attributePath)
}

func (s *Subquery) Resolve(attributePath string) (expression.FieldNode, error) {
	return s.resolver.Resolve(attributePath)
}

func (s *Subquery) Concat(parts ...expression.Visitable) expression.Visitable {
	return expression.Concat(parts...)
}

func (s *Subquery) NewSubquery() *Subquery {
	return newSubquery(s.registry, s.resolver)
}

// ToSql renders the subquery with "?" placeholders so that it can be
// embedded into the enclosing statement.
func (s *Subquery) ToSql() (string, []any, error) {
	b, err := s.build(squirrel.Question, nil)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

func (s *Subquery) Accept(v expression.Visitor) error {
	return v.VisitSubquery(expression.Subquery(s))
}

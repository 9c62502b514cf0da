package query

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/expression"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/path"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
)

// selectStatement is the state criteria queries and subqueries share: a
// scope of aliased sources and the clauses built against it.
type selectStatement struct {
	resolver     *path.Resolver
	sources      *entitySources
	selections   []expression.Visitable
	distinct     bool
	restrictions []expression.Visitable
	groupings    []expression.Visitable
	having       []expression.Visitable
	orders       []expression.Visitable
	errs         *multierror.Error
}

func newSelectStatement(registry *schema.Registry) selectStatement {
	sources := newEntitySources(registry)
	return selectStatement{
		resolver: path.NewResolver(sources),
		sources:  sources,
	}
}

// newNestedStatement opens a scope inside the statement owning parent.
func newNestedStatement(registry *schema.Registry, parent *path.Resolver) selectStatement {
	sources := newEntitySources(registry)
	return selectStatement{
		resolver: parent.NewScope(sources),
		sources:  sources,
	}
}

func (s *selectStatement) fail(err error) {
	s.errs = multierror.Append(s.errs, err)
}

func (s *selectStatement) from(entity string, alias []string) {
	var requested string
	if len(alias) > 0 {
		requested = alias[0]
	}
	if _, err := s.resolver.AddSource(entity, requested); err != nil {
		s.fail(err)
	}
}

func (s *selectStatement) join(attributePath, alias string, kind path.JoinKind) {
	if _, err := s.resolver.AddJoin(attributePath, alias, kind); err != nil {
		s.fail(err)
	}
}

func (s *selectStatement) get(attributePath string) expression.FieldNode {
	field, err := s.resolver.Resolve(attributePath)
	if err != nil {
		s.fail(err)
	}
	return field
}

func (s *selectStatement) Err() error {
	return s.errs.ErrorOrNil()
}

func (s *selectStatement) build(format squirrel.PlaceholderFormat, w *window) (squirrel.SelectBuilder, error) {
	b := squirrel.StatementBuilder.PlaceholderFormat(format).Select()
	if err := s.Err(); err != nil {
		return b, err
	}
	sources := s.resolver.Sources()
	if len(sources) == 0 {
		return b, ErrNoSource
	}

	if len(s.selections) == 0 {
		b = b.Column(sources[0].Alias() + ".*")
	}
	for _, selection := range s.selections {
		sql, args, err := s.compileClause(selection)
		if err != nil {
			return b, err
		}
		b = b.Column(squirrel.Expr(sql, args...))
	}
	if s.distinct {
		b = b.Distinct()
	}

	b = b.From(s.sources.table(sources[0]))
	for _, source := range sources[1:] {
		b = b.JoinClause(s.sources.clause(source))
	}

	if restriction := expression.Conjunction(s.restrictions...); restriction != nil {
		sql, args, err := s.compileClause(restriction)
		if err != nil {
			return b, err
		}
		b = b.Where(sql, args...)
	}

	if len(s.groupings) > 0 {
		groupBys := make([]string, 0, len(s.groupings))
		for _, grouping := range s.groupings {
			sql, args, err := s.compileClause(grouping)
			if err != nil {
				return b, err
			}
			if len(args) > 0 {
				return b, errors.Errorf("grouping %q cannot bind values", sql)
			}
			groupBys = append(groupBys, sql)
		}
		b = b.GroupBy(groupBys...)
	}

	if restriction := expression.Conjunction(s.having...); restriction != nil {
		sql, args, err := s.compileClause(restriction)
		if err != nil {
			return b, err
		}
		b = b.Having(sql, args...)
	}

	for _, order := range s.orders {
		sql, args, err := s.compileClause(order)
		if err != nil {
			return b, err
		}
		b = b.OrderByClause(sql, args...)
	}

	if w != nil {
		b = b.Limit(w.limit).Offset(w.offset)
	}
	return b, nil
}

// compileClause compiles one clause and rejects clauses built from paths
// that failed to resolve.
func (s *selectStatement) compileClause(exp expression.Visitable) (string, []any, error) {
	sql, args, err := compile(exp, s.checkField)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(sql) == "" {
		return "", nil, errors.New("empty clause")
	}
	return sql, args, nil
}

// checkField rejects references to an enclosing query whose alias is reused
// by a source of this statement.
func (s *selectStatement) checkField(field expression.FieldNode) error {
	source, ok := path.SourceOf(field)
	if ok && s.resolver.Shadows(source) {
		return errors.Wrapf(ErrShadowedAlias, "%q in %s", source.Alias(), strings.Join(expression.ExtractFieldPath(field), "."))
	}
	return nil
}

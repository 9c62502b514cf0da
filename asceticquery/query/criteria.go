package query

import (
	"reflect"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/expression"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/path"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
)

// Criteria builds a SELECT statement against registered entities addressed
// through aliases and dotted paths:
//
//	q := factory.NewCriteria().
//		From("User", "u").
//		LeftJoin("u.orders", "o")
//	q.Where(expression.GreaterThan(q.Get("o.total"), expression.Value(100)))
//
// Errors raised while building are collected and returned by Err and by the
// terminal operations.
type Criteria struct {
	base
	selectStatement
	registry *schema.Registry
}

func newCriteria(f *Factory, resultType reflect.Type) *Criteria {
	c := &Criteria{
		base:            newBase(f, resultType),
		selectStatement: newSelectStatement(f.registry),
		registry:        f.registry,
	}
	c.render = c.renderWindow
	c.onExecute = c.resolver.Seal
	c.sender = c
	return c
}

func (c *Criteria) From(entity string, alias ...string) *Criteria {
	c.from(entity, alias)
	return c
}

func (c *Criteria) Join(attributePath, alias string, kind path.JoinKind) *Criteria {
	c.join(attributePath, alias, kind)
	return c
}

func (c *Criteria) InnerJoin(attributePath, alias string) *Criteria {
	return c.Join(attributePath, alias, path.InnerJoin)
}

func (c *Criteria) LeftJoin(attributePath, alias string) *Criteria {
	return c.Join(attributePath, alias, path.LeftJoin)
}

func (c *Criteria) RightJoin(attributePath, alias string) *Criteria {
	return c.Join(attributePath, alias, path.RightJoin)
}

func (c *Criteria) Select(selections ...expression.Visitable) *Criteria {
	c.selections = selections
	return c
}

func (c *Criteria) SelectDistinct(selections ...expression.Visitable) *Criteria {
	c.selections = selections
	c.distinct = true
	return c
}

func (c *Criteria) Distinct() *Criteria {
	c.distinct = true
	return c
}

func (c *Criteria) Count(x expression.Visitable) *Criteria {
	return c.Select(expression.Count(x))
}

func (c *Criteria) CountDistinct(x expression.Visitable) *Criteria {
	return c.Select(expression.CountDistinct(x))
}

// NewRestrictions returns an empty restriction list to be filled and passed
// to Where.
func (c *Criteria) NewRestrictions() []expression.Visitable {
	return []expression.Visitable{}
}

// Where replaces the restrictions of the query. They are combined with AND.
func (c *Criteria) Where(restrictions ...expression.Visitable) *Criteria {
	c.restrictions = restrictions
	return c
}

func (c *Criteria) GroupBy(groupings ...expression.Visitable) *Criteria {
	c.groupings = groupings
	return c
}

func (c *Criteria) Having(restrictions ...expression.Visitable) *Criteria {
	c.having = restrictions
	return c
}

// OrderBy accepts expression.Asc/Desc nodes; bare expressions sort in the
// database default order.
func (c *Criteria) OrderBy(orders ...expression.Visitable) *Criteria {
	c.orders = orders
	return c
}

// Get resolves a path to an attribute reference. A path that cannot be
// resolved is recorded as an error of the query.
func (c *Criteria) Get(attributePath string) expression.FieldNode {
	return c.get(attributePath)
}

// Resolve is Get that reports the failure to the caller instead.
func (c *Criteria) Resolve(attributePath string) (expression.FieldNode, error) {
	return c.resolver.Resolve(attributePath)
}

func (c *Criteria) Concat(parts ...expression.Visitable) expression.Visitable {
	return expression.Concat(parts...)
}

func (c *Criteria) NewSubquery() *Subquery {
	return newSubquery(c.registry, c.resolver)
}

// SQL renders the statement in the dialect of the factory. Named parameters
// are left as markers in args.
func (c *Criteria) SQL() (string, []any, error) {
	return c.renderWindow(nil)
}

func (c *Criteria) renderWindow(w *window) (string, []any, error) {
	b, err := c.build(c.dialect.PlaceholderFormat(), w)
	if err != nil {
		return "", nil, err
	}
	return b.ToSql()
}

package query

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/expression"
)

// Compile renders an expression with "?" placeholders. Named parameters are
// returned as markers in args and bound right before execution.
func Compile(exp expression.Visitable) (sql string, args []any, err error) {
	return compile(exp, nil)
}

// compile calls checkField, when given, for every attribute reference.
func compile(exp expression.Visitable, checkField func(expression.FieldNode) error) (string, []any, error) {
	if exp == nil {
		return "", nil, errors.New("cannot compile a nil expression")
	}
	c := newCompiler()
	c.checkField = checkField
	if err := exp.Accept(c); err != nil {
		return "", nil, err
	}
	return c.Result()
}

func newCompiler() *compiler {
	c := &compiler{
		precedenceMapping: make(map[string]int),
	}
	// https://www.postgresql.org/docs/14/sql-syntax-lexical.html#SQL-PRECEDENCE-TABLE
	c.setPrecedence(160, ". LEFT")
	c.setPrecedence(140, "+ RIGHT", "- RIGHT")
	c.setPrecedence(120, "* LEFT", "/ LEFT", "% LEFT")
	c.setPrecedence(110, "+ LEFT", "- LEFT")
	// all other native and user-defined operators 👇️
	c.setPrecedence(100, "(any other operator) LEFT")
	c.setPrecedence(90, "IN NON", "NOT IN NON", "LIKE NON", "NOT LIKE NON")
	c.setPrecedence(80, "< NON", "> NON", "= NON", "<= NON", ">= NON", "<> NON")
	c.setPrecedence(70, "IS NON", "IS NULL NON", "IS NOT NULL NON")
	c.setPrecedence(60, "NOT RIGHT", "EXISTS RIGHT")
	c.setPrecedence(50, "AND LEFT")
	c.setPrecedence(40, "OR LEFT")
	return c
}

type compiler struct {
	sql               strings.Builder
	args              []any
	precedence        int
	precedenceMapping map[string]int
	checkField        func(expression.FieldNode) error
}

func (c *compiler) getNodePrecedenceKey(n expression.Operable) string {
	return fmt.Sprintf("%s %s", n.Operator(), n.Associativity())
}

func (c *compiler) setPrecedence(precedence int, operators ...string) {
	for _, op := range operators {
		c.precedenceMapping[op] = precedence
	}
}

func (c *compiler) visit(precedenceKey string, callable func() error) error {
	outerPrecedence := c.precedence
	innerPrecedence, ok := c.precedenceMapping[precedenceKey]
	if !ok {
		innerPrecedence = c.precedenceMapping["(any other operator) LEFT"]
	}
	c.precedence = innerPrecedence
	if innerPrecedence < outerPrecedence {
		c.sql.WriteString("(")
	}
	if err := callable(); err != nil {
		return err
	}
	if innerPrecedence < outerPrecedence {
		c.sql.WriteString(")")
	}
	c.precedence = outerPrecedence
	return nil
}

// isolated renders a nested list (function arguments, IN lists) that carries
// its own parentheses.
func (c *compiler) isolated(items []expression.Visitable) error {
	outerPrecedence := c.precedence
	c.precedence = 0
	defer func() { c.precedence = outerPrecedence }()
	for i, item := range items {
		if i > 0 {
			c.sql.WriteString(", ")
		}
		if item == nil {
			return errors.New("cannot compile a nil expression")
		}
		if err := item.Accept(c); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) VisitGlobalScope(_ expression.GlobalScopeNode) error {
	return nil
}

func (c *compiler) VisitObject(_ expression.ObjectNode) error {
	return nil
}

func (c *compiler) VisitField(n expression.FieldNode) error {
	if c.checkField != nil {
		if err := c.checkField(n); err != nil {
			return err
		}
	}
	c.sql.WriteString(strings.Join(expression.ExtractFieldPath(n), "."))
	return nil
}

func (c *compiler) VisitValue(n expression.ValueNode) error {
	c.args = append(c.args, n.Value())
	c.sql.WriteString("?")
	return nil
}

func (c *compiler) VisitParameter(n expression.ParameterNode) error {
	c.args = append(c.args, namedParameter{name: n.Name()})
	c.sql.WriteString("?")
	return nil
}

func (c *compiler) VisitPrefix(n expression.PrefixNode) error {
	return c.visit(c.getNodePrecedenceKey(n), func() error {
		if n.Operator().IsSigned() {
			c.sql.WriteString(string(n.Operator()))
		} else {
			c.sql.WriteString(fmt.Sprintf("%s ", n.Operator()))
		}
		return n.Operand().Accept(c)
	})
}

func (c *compiler) VisitInfix(n expression.InfixNode) error {
	return c.visit(c.getNodePrecedenceKey(n), func() error {
		if err := n.Left().Accept(c); err != nil {
			return err
		}
		c.sql.WriteString(fmt.Sprintf(" %s ", n.Operator()))
		return n.Right().Accept(c)
	})
}

func (c *compiler) VisitPostfix(n expression.PostfixNode) error {
	return c.visit(c.getNodePrecedenceKey(n), func() error {
		if err := n.Operand().Accept(c); err != nil {
			return err
		}
		c.sql.WriteString(fmt.Sprintf(" %s", n.Operator()))
		return nil
	})
}

func (c *compiler) VisitFunction(n expression.FunctionNode) error {
	c.sql.WriteString(n.Name())
	c.sql.WriteString("(")
	if n.Star() {
		c.sql.WriteString("*")
	} else {
		if n.Distinct() {
			c.sql.WriteString("DISTINCT ")
		}
		if err := c.isolated(n.Arguments()); err != nil {
			return err
		}
	}
	c.sql.WriteString(")")
	return nil
}

func (c *compiler) VisitList(n expression.ListNode) error {
	c.sql.WriteString("(")
	if err := c.isolated(n.Items()); err != nil {
		return err
	}
	c.sql.WriteString(")")
	return nil
}

func (c *compiler) VisitOrder(n expression.OrderNode) error {
	if err := n.Operand().Accept(c); err != nil {
		return err
	}
	if n.Descending() {
		c.sql.WriteString(" DESC")
	} else {
		c.sql.WriteString(" ASC")
	}
	return nil
}

func (c *compiler) VisitSubquery(n expression.SubqueryNode) error {
	sql, args, err := n.Statement().ToSql()
	if err != nil {
		return errors.Wrap(err, "cannot compile subquery")
	}
	c.sql.WriteString("(")
	c.sql.WriteString(sql)
	c.sql.WriteString(")")
	c.args = append(c.args, args...)
	return nil
}

func (c *compiler) Result() (sql string, args []any, err error) {
	return c.sql.String(), c.args, nil
}

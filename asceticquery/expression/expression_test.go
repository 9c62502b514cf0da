package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/expression/operators"
)

func TestExtractFieldPath(t *testing.T) {
	f := Field(Object(Object(GlobalScope(), "e000"), "address"), "city")
	assert.Equal(t, []string{"e000", "address", "city"}, ExtractFieldPath(f))

	assert.Equal(t, []string{"name"}, ExtractFieldPath(Field(GlobalScope(), "name")))
}

func TestAnd_FoldsLeft(t *testing.T) {
	a, b, c := Value(1), Value(2), Value(3)
	n := And(a, b, c)

	assert.Equal(t, operators.OperatorAnd, n.Operator())
	assert.Equal(t, c, n.Right())
	inner, ok := n.Left().(InfixNode)
	require.True(t, ok)
	assert.Equal(t, a, inner.Left())
	assert.Equal(t, b, inner.Right())
}

func TestConjunction(t *testing.T) {
	assert.Nil(t, Conjunction())

	single := Equal(Value(1), Value(1))
	assert.Equal(t, single, Conjunction(single))

	n, ok := Conjunction(single, single).(InfixNode)
	require.True(t, ok)
	assert.Equal(t, operators.OperatorAnd, n.Operator())
}

func TestConcat(t *testing.T) {
	t.Run("no parts", func(t *testing.T) {
		assert.Nil(t, Concat())
	})

	t.Run("single part", func(t *testing.T) {
		v := Value("x")
		assert.Equal(t, v, Concat(v))
	})

	t.Run("folds pairwise", func(t *testing.T) {
		a, b, c := Value("a"), Value("b"), Value("c")
		outer, ok := Concat(a, b, c).(FunctionNode)
		require.True(t, ok)
		assert.Equal(t, "CONCAT", outer.Name())
		require.Len(t, outer.Arguments(), 2)
		assert.Equal(t, c, outer.Arguments()[1])

		inner, ok := outer.Arguments()[0].(FunctionNode)
		require.True(t, ok)
		assert.Equal(t, []Visitable{a, b}, inner.Arguments())
	})
}

type stubStatement struct{}

func (stubStatement) ToSql() (string, []any, error) {
	return "SELECT 1", nil, nil
}

func TestIn(t *testing.T) {
	n := In(Value(1), Value(2), Value(3))
	list, ok := n.Right().(ListNode)
	require.True(t, ok)
	assert.Len(t, list.Items(), 3)

	n = In(Value(1), Subquery(stubStatement{}))
	_, ok = n.Right().(SubqueryNode)
	assert.True(t, ok)
}

func TestAggregates(t *testing.T) {
	f := Field(Object(GlobalScope(), "e000"), "id")

	assert.True(t, CountAll().Star())
	assert.False(t, Count(f).Distinct())
	assert.True(t, CountDistinct(f).Distinct())
	assert.Equal(t, "SUM", Sum(f).Name())
	assert.True(t, Desc(f).Descending())
	assert.False(t, Asc(f).Descending())
}

func TestSignedOperators(t *testing.T) {
	assert.True(t, Neg(Value(1)).Operator().IsSigned())
	assert.True(t, Pos(Value(1)).Operator().IsSigned())
	assert.False(t, Not(Value(true)).Operator().IsSigned())
	assert.Equal(t, RightAssociative, Neg(Value(1)).Associativity())
	assert.Equal(t, LeftAssociative, Sub(Value(2), Value(1)).Associativity())
}

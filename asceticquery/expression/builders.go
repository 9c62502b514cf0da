package expression

import "github.com/krew-solutions/ascetic-query-go/asceticquery/expression/operators"

func Not(operand Visitable) PrefixNode {
	return NewPrefixNode(operators.OperatorNot, operand, RightAssociative)
}

func Neg(operand Visitable) PrefixNode {
	return NewPrefixNode(operators.OperatorSub, operand, RightAssociative)
}

func Pos(operand Visitable) PrefixNode {
	return NewPrefixNode(operators.OperatorAdd, operand, RightAssociative)
}

func Exists(sub Visitable) PrefixNode {
	return NewPrefixNode(operators.OperatorExists, sub, RightAssociative)
}

func NotExists(sub Visitable) PrefixNode {
	return Not(Exists(sub))
}

func Equal(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorEq, right, NonAssociative)
}

func NotEqual(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorNe, right, NonAssociative)
}

func GreaterThan(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorGt, right, NonAssociative)
}

func GreaterThanEqual(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorGte, right, NonAssociative)
}

func LessThan(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorLt, right, NonAssociative)
}

func LessThanEqual(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorLte, right, NonAssociative)
}

func Is(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorIs, right, NonAssociative)
}

func Like(left, pattern Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorLike, pattern, NonAssociative)
}

func NotLike(left, pattern Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorNotLike, pattern, NonAssociative)
}

// In renders "left IN (v1, v2, ...)". A single subquery or Statement is
// rendered as "left IN (SELECT ...)".
func In(left Visitable, values ...Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorIn, membership(values), NonAssociative)
}

func NotIn(left Visitable, values ...Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorNotIn, membership(values), NonAssociative)
}

func membership(values []Visitable) Visitable {
	if len(values) == 1 {
		switch v := values[0].(type) {
		case SubqueryNode:
			return v
		case Statement:
			return Subquery(v)
		}
	}
	return List(values...)
}

func And(left Visitable, rights ...Visitable) InfixNode {
	left, right := foldRights(And, left, rights...)
	return NewInfixNode(left, operators.OperatorAnd, right, LeftAssociative)
}

func Or(left Visitable, rights ...Visitable) InfixNode {
	left, right := foldRights(Or, left, rights...)
	return NewInfixNode(left, operators.OperatorOr, right, LeftAssociative)
}

func Add(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorAdd, right, LeftAssociative)
}

func Sub(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorSub, right, LeftAssociative)
}

func Mul(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorMul, right, LeftAssociative)
}

func Div(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorDiv, right, LeftAssociative)
}

func Mod(left, right Visitable) InfixNode {
	return NewInfixNode(left, operators.OperatorMod, right, LeftAssociative)
}

func foldRights(
	aCallable func(Visitable, ...Visitable) InfixNode,
	aLeft Visitable,
	aRights ...Visitable,
) (left, right Visitable) {
	for len(aRights) > 1 {
		aLeft = aCallable(aLeft, aRights[0])
		aRights = aRights[1:]
	}
	return aLeft, aRights[0]
}

// Conjunction combines restrictions with AND. It returns nil for no
// restrictions and the restriction itself for exactly one.
func Conjunction(restrictions ...Visitable) Visitable {
	switch len(restrictions) {
	case 0:
		return nil
	case 1:
		return restrictions[0]
	default:
		return And(restrictions[0], restrictions[1:]...)
	}
}

func IsNull(operand Visitable) PostfixNode {
	return NewPostfixNode(operand, operators.OperatorIsNull, NonAssociative)
}

func IsNotNull(operand Visitable) PostfixNode {
	return NewPostfixNode(operand, operators.OperatorIsNotNull, NonAssociative)
}

func Count(operand Visitable) FunctionNode {
	return NewFunctionNode("COUNT", operand)
}

func CountAll() FunctionNode {
	return FunctionNode{name: "COUNT", star: true}
}

func CountDistinct(operand Visitable) FunctionNode {
	f := NewFunctionNode("COUNT", operand)
	f.distinct = true
	return f
}

func Sum(operand Visitable) FunctionNode {
	return NewFunctionNode("SUM", operand)
}

func Avg(operand Visitable) FunctionNode {
	return NewFunctionNode("AVG", operand)
}

func Min(operand Visitable) FunctionNode {
	return NewFunctionNode("MIN", operand)
}

func Max(operand Visitable) FunctionNode {
	return NewFunctionNode("MAX", operand)
}

func Lower(operand Visitable) FunctionNode {
	return NewFunctionNode("LOWER", operand)
}

func Upper(operand Visitable) FunctionNode {
	return NewFunctionNode("UPPER", operand)
}

// Concat folds the parts pairwise into nested CONCAT calls:
// Concat(a, b, c) is CONCAT(CONCAT(a, b), c). It returns nil for no parts.
func Concat(parts ...Visitable) Visitable {
	if len(parts) == 0 {
		return nil
	}
	result := parts[0]
	for _, part := range parts[1:] {
		result = NewFunctionNode("CONCAT", result, part)
	}
	return result
}

func Asc(operand Visitable) OrderNode {
	return OrderNode{operand: operand}
}

func Desc(operand Visitable) OrderNode {
	return OrderNode{operand: operand, descending: true}
}

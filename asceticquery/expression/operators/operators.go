package operators

type Operator string

const (
	// Comparison

	OperatorEq  Operator = "="
	OperatorGt  Operator = ">"
	OperatorLt  Operator = "<"
	OperatorGte Operator = ">="
	OperatorLte Operator = "<="
	OperatorNe  Operator = "<>"
	OperatorIs  Operator = "IS"

	// Pattern and membership

	OperatorLike    Operator = "LIKE"
	OperatorNotLike Operator = "NOT LIKE"
	OperatorIn      Operator = "IN"
	OperatorNotIn   Operator = "NOT IN"

	// Logical operators

	OperatorAnd    Operator = "AND"
	OperatorOr     Operator = "OR"
	OperatorNot    Operator = "NOT"
	OperatorExists Operator = "EXISTS"

	// Mathematical. Unary plus and minus share the symbol with their binary
	// counterparts and differ by associativity.

	OperatorAdd Operator = "+"
	OperatorSub Operator = "-"
	OperatorMul Operator = "*"
	OperatorDiv Operator = "/"
	OperatorMod Operator = "%"

	// String

	OperatorConcat Operator = "||"

	// Postfix

	OperatorIsNull    Operator = "IS NULL"
	OperatorIsNotNull Operator = "IS NOT NULL"
)

// IsSigned reports whether the operator is rendered glued to its operand
// when used as a prefix.
func (o Operator) IsSigned() bool {
	return o == OperatorAdd || o == OperatorSub
}

package expression

import "github.com/krew-solutions/ascetic-query-go/asceticquery/expression/operators"

type Associativity string

const (
	LeftAssociative  Associativity = "LEFT"
	RightAssociative Associativity = "RIGHT"
	NonAssociative   Associativity = "NON"
)

type Operable interface {
	Associativity() Associativity
	Operator() operators.Operator
}

type Visitable interface {
	Accept(Visitor) error
}

type Visitor interface {
	VisitGlobalScope(GlobalScopeNode) error
	VisitObject(ObjectNode) error
	VisitField(FieldNode) error
	VisitValue(ValueNode) error
	VisitParameter(ParameterNode) error
	VisitPrefix(PrefixNode) error
	VisitInfix(InfixNode) error
	VisitPostfix(PostfixNode) error
	VisitFunction(FunctionNode) error
	VisitList(ListNode) error
	VisitOrder(OrderNode) error
	VisitSubquery(SubqueryNode) error
}

func Value(value any) ValueNode {
	return ValueNode{
		value: value,
	}
}

type ValueNode struct {
	value any
}

func (n ValueNode) Value() any {
	return n.value
}

func (n ValueNode) Accept(v Visitor) error {
	return v.VisitValue(n)
}

// Parameter is a named placeholder bound at execution time.
func Parameter(name string) ParameterNode {
	return ParameterNode{
		name: name,
	}
}

type ParameterNode struct {
	name string
}

func (n ParameterNode) Name() string {
	return n.name
}

func (n ParameterNode) Accept(v Visitor) error {
	return v.VisitParameter(n)
}

type EmptiableObject interface {
	Visitable
	Parent() EmptiableObject
	Name() string
	IsRoot() bool
}

func GlobalScope() GlobalScopeNode {
	return GlobalScopeNode{}
}

type GlobalScopeNode struct{}

func (n GlobalScopeNode) Parent() EmptiableObject {
	return n
}

func (n GlobalScopeNode) Name() string {
	return ""
}

func (n GlobalScopeNode) IsRoot() bool {
	return true
}

func (n GlobalScopeNode) Accept(v Visitor) error {
	return v.VisitGlobalScope(n)
}

func Object(parent EmptiableObject, name string) ObjectNode {
	return ObjectNode{
		parent: parent,
		name:   name,
	}
}

type ObjectNode struct {
	parent EmptiableObject
	name   string
}

func (n ObjectNode) Parent() EmptiableObject {
	return n.parent
}

func (n ObjectNode) Name() string {
	return n.name
}

func (n ObjectNode) IsRoot() bool {
	return false
}

func (n ObjectNode) Accept(v Visitor) error {
	return v.VisitObject(n)
}

func Field(object EmptiableObject, name string) FieldNode {
	return FieldNode{
		object: object,
		name:   name,
	}
}

type FieldNode struct {
	object EmptiableObject
	name   string
}

func (n FieldNode) Name() string {
	return n.name
}

func (n FieldNode) Object() EmptiableObject {
	return n.object
}

func (n FieldNode) Accept(v Visitor) error {
	return v.VisitField(n)
}

// ExtractFieldPath returns the object chain of the field followed by its name,
// e.g. ["e001", "name"].
func ExtractFieldPath(n FieldNode) []string {
	path := []string{n.Name()}
	var obj EmptiableObject = n.Object()
	for obj != nil && !obj.IsRoot() {
		path = append([]string{obj.Name()}, path...)
		obj = obj.Parent()
	}
	return path
}

func NewPrefixNode(operator operators.Operator, operand Visitable, associativity Associativity) PrefixNode {
	return PrefixNode{
		operator:      operator,
		operand:       operand,
		associativity: associativity,
	}
}

type PrefixNode struct {
	operator      operators.Operator
	operand       Visitable
	associativity Associativity
}

func (n PrefixNode) Operand() Visitable {
	return n.operand
}

func (n PrefixNode) Operator() operators.Operator {
	return n.operator
}

func (n PrefixNode) Associativity() Associativity {
	return n.associativity
}

func (n PrefixNode) Accept(v Visitor) error {
	return v.VisitPrefix(n)
}

func NewInfixNode(left Visitable, operator operators.Operator, right Visitable, associativity Associativity) InfixNode {
	return InfixNode{
		left:          left,
		operator:      operator,
		right:         right,
		associativity: associativity,
	}
}

type InfixNode struct {
	left          Visitable
	operator      operators.Operator
	right         Visitable
	associativity Associativity
}

func (n InfixNode) Left() Visitable {
	return n.left
}

func (n InfixNode) Operator() operators.Operator {
	return n.operator
}

func (n InfixNode) Right() Visitable {
	return n.right
}

func (n InfixNode) Associativity() Associativity {
	return n.associativity
}

func (n InfixNode) Accept(v Visitor) error {
	return v.VisitInfix(n)
}

func NewPostfixNode(operand Visitable, operator operators.Operator, associativity Associativity) PostfixNode {
	return PostfixNode{
		operand:       operand,
		operator:      operator,
		associativity: associativity,
	}
}

type PostfixNode struct {
	operand       Visitable
	operator      operators.Operator
	associativity Associativity
}

func (n PostfixNode) Operand() Visitable {
	return n.operand
}

func (n PostfixNode) Operator() operators.Operator {
	return n.operator
}

func (n PostfixNode) Associativity() Associativity {
	return n.associativity
}

func (n PostfixNode) Accept(v Visitor) error {
	return v.VisitPostfix(n)
}

// FunctionNode is an SQL function call. A FunctionNode without arguments and
// with Star set renders as NAME(*).
type FunctionNode struct {
	name      string
	arguments []Visitable
	distinct  bool
	star      bool
}

func NewFunctionNode(name string, arguments ...Visitable) FunctionNode {
	return FunctionNode{
		name:      name,
		arguments: arguments,
	}
}

func (n FunctionNode) Name() string {
	return n.name
}

func (n FunctionNode) Arguments() []Visitable {
	return n.arguments
}

func (n FunctionNode) Distinct() bool {
	return n.distinct
}

func (n FunctionNode) Star() bool {
	return n.star
}

func (n FunctionNode) Accept(v Visitor) error {
	return v.VisitFunction(n)
}

func List(items ...Visitable) ListNode {
	return ListNode{
		items: items,
	}
}

type ListNode struct {
	items []Visitable
}

func (n ListNode) Items() []Visitable {
	return n.items
}

func (n ListNode) Accept(v Visitor) error {
	return v.VisitList(n)
}

type OrderNode struct {
	operand    Visitable
	descending bool
}

func (n OrderNode) Operand() Visitable {
	return n.operand
}

func (n OrderNode) Descending() bool {
	return n.descending
}

func (n OrderNode) Accept(v Visitor) error {
	return v.VisitOrder(n)
}

// Statement is anything that renders itself to SQL with positional
// placeholders, e.g. a squirrel builder or a criteria subquery.
type Statement interface {
	ToSql() (string, []any, error)
}

func Subquery(stmt Statement) SubqueryNode {
	return SubqueryNode{
		statement: stmt,
	}
}

type SubqueryNode struct {
	statement Statement
}

func (n SubqueryNode) Statement() Statement {
	return n.statement
}

func (n SubqueryNode) Accept(v Visitor) error {
	return v.VisitSubquery(n)
}

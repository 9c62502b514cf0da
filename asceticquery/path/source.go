package path

import (
	"fmt"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/expression"
)

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

// Source is a queried source registered in an AliasTable: either a Root or a
// Join derived from another Source. A Source is also the object that
// attribute references hang off, so Field(source, "name") renders as
// "alias.name".
type Source interface {
	expression.EmptiableObject
	Alias() string
}

type Root struct {
	entity string
	alias  string
}

func (r *Root) Entity() string {
	return r.entity
}

func (r *Root) Alias() string {
	return r.alias
}

func (r *Root) Parent() expression.EmptiableObject {
	return expression.GlobalScope()
}

func (r *Root) Name() string {
	return r.alias
}

func (r *Root) IsRoot() bool {
	return false
}

func (r *Root) Accept(v expression.Visitor) error {
	return v.VisitObject(expression.Object(r.Parent(), r.alias))
}

type Join struct {
	from      Source
	attribute string
	kind      JoinKind
	alias     string
}

// From returns the source the join navigates from.
func (j *Join) From() Source {
	return j.from
}

func (j *Join) Attribute() string {
	return j.attribute
}

func (j *Join) Kind() JoinKind {
	return j.kind
}

func (j *Join) Alias() string {
	return j.alias
}

func (j *Join) Parent() expression.EmptiableObject {
	return expression.GlobalScope()
}

func (j *Join) Name() string {
	return j.alias
}

func (j *Join) IsRoot() bool {
	return false
}

func (j *Join) Accept(v expression.Visitor) error {
	return v.VisitObject(expression.Object(j.Parent(), j.alias))
}

// SourceFactory creates source handles. Top-level queries and subqueries
// share the resolver and differ only in the factory they plug in.
type SourceFactory interface {
	NewRoot(entity, alias string) (Source, error)
	NewJoin(from Source, attribute string, kind JoinKind, alias string) (Source, error)
}

type DefaultFactory struct{}

func (DefaultFactory) NewRoot(entity, alias string) (Source, error) {
	return &Root{entity: entity, alias: alias}, nil
}

func (DefaultFactory) NewJoin(from Source, attribute string, kind JoinKind, alias string) (Source, error) {
	return &Join{from: from, attribute: attribute, kind: kind, alias: alias}, nil
}

// SourceOf returns the source an attribute reference hangs off.
func SourceOf(field expression.FieldNode) (Source, bool) {
	for obj := field.Object(); obj != nil && !obj.IsRoot(); obj = obj.Parent() {
		if source, ok := obj.(Source); ok {
			return source, true
		}
	}
	return nil, false
}

package schema

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

const DefaultPrimaryKey = "id"

// ColumnPair is a single join column mapping between the table of the owning
// entity (Source) and the table of the related entity (Target).
type ColumnPair struct {
	SourceColumn string
	TargetColumn string
}

// Relation describes a navigable attribute of an entity.
type Relation struct {
	// Attribute is the name used in paths, e.g. "orders" in "u.orders".
	Attribute string

	// Target is the registered name of the related entity.
	Target string

	// Columns define the join condition. Composite keys are supported:
	//     []ColumnPair{
	//         {SourceColumn: "tenant_id", TargetColumn: "tenant_id"},
	//         {SourceColumn: "id", TargetColumn: "user_id"},
	//     }
	Columns []ColumnPair
}

type Entity struct {
	Name       string
	Table      string
	PrimaryKey string
	relations  map[string]Relation
}

// NewEntity creates an entity whose table defaults to the snake-cased plural
// of its name ("OrderLine" -> "order_lines").
func NewEntity(name string) *Entity {
	return &Entity{
		Name:       name,
		Table:      DefaultTableName(name),
		PrimaryKey: DefaultPrimaryKey,
		relations:  make(map[string]Relation),
	}
}

func (e *Entity) WithTable(table string) *Entity {
	e.Table = table
	return e
}

func (e *Entity) WithPrimaryKey(column string) *Entity {
	e.PrimaryKey = column
	return e
}

// Relate registers a relation with explicit join columns.
func (e *Entity) Relate(attribute, target string, columns ...ColumnPair) *Entity {
	e.relations[attribute] = Relation{
		Attribute: attribute,
		Target:    target,
		Columns:   columns,
	}
	return e
}

// HasMany registers a one-to-many relation where the target table holds the
// foreign key referencing this entity's primary key.
func (e *Entity) HasMany(attribute, target, foreignKey string) *Entity {
	return e.Relate(attribute, target, ColumnPair{SourceColumn: e.PrimaryKey, TargetColumn: foreignKey})
}

// BelongsTo registers a many-to-one relation where this entity's table holds
// the foreign key referencing the target's primary key.
func (e *Entity) BelongsTo(attribute, target, foreignKey string) *Entity {
	return e.Relate(attribute, target, ColumnPair{SourceColumn: foreignKey, TargetColumn: DefaultPrimaryKey})
}

func (e *Entity) Relation(attribute string) (Relation, bool) {
	r, ok := e.relations[attribute]
	return r, ok
}

func DefaultTableName(name string) string {
	return toSnake(inflection.Plural(name))
}

func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

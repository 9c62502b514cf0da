package schema

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type relationDefinition struct {
	Attribute  string `yaml:"attribute"`
	Target     string `yaml:"target"`
	ForeignKey string `yaml:"foreign_key"`
}

type entityDefinition struct {
	Name       string               `yaml:"name"`
	Table      string               `yaml:"table"`
	PrimaryKey string               `yaml:"primary_key"`
	HasMany    []relationDefinition `yaml:"has_many"`
	BelongsTo  []relationDefinition `yaml:"belongs_to"`
}

type document struct {
	Entities []entityDefinition `yaml:"entities"`
}

// ParseYAML builds a registry from a document of the form
//
//	entities:
//	  - name: User
//	    has_many:
//	      - {attribute: orders, target: Order, foreign_key: user_id}
//	  - name: Order
//	    table: purchase_orders
//	    belongs_to:
//	      - {attribute: user, target: User, foreign_key: user_id}
//
// Relation targets are checked once every entity is known.
func ParseYAML(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "unable to parse schema")
	}
	r := NewRegistry()
	for _, def := range doc.Entities {
		if def.Name == "" {
			return nil, errors.New("schema: entity without a name")
		}
		e := NewEntity(def.Name)
		if def.Table != "" {
			e.WithTable(def.Table)
		}
		if def.PrimaryKey != "" {
			e.WithPrimaryKey(def.PrimaryKey)
		}
		for _, rel := range def.HasMany {
			e.HasMany(rel.Attribute, rel.Target, rel.ForeignKey)
		}
		for _, rel := range def.BelongsTo {
			e.BelongsTo(rel.Attribute, rel.Target, rel.ForeignKey)
		}
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	for _, e := range r.entities {
		for _, rel := range e.relations {
			if !r.Has(rel.Target) {
				return nil, errors.Wrapf(ErrUnknownEntity, "%q targeted by %s.%s", rel.Target, e.Name, rel.Attribute)
			}
		}
	}
	return r, nil
}

func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read schema %q", path)
	}
	return ParseYAML(data)
}

package schema

import (
	"github.com/pkg/errors"
)

var (
	ErrUnknownEntity   = errors.New("schema: unknown entity")
	ErrUnknownRelation = errors.New("schema: unknown relation")
	ErrDuplicateEntity = errors.New("schema: entity already registered")
)

// Registry holds the entities a query factory can address by name.
type Registry struct {
	entities map[string]*Entity
}

func NewRegistry(entities ...*Entity) *Registry {
	r := &Registry{
		entities: make(map[string]*Entity),
	}
	for _, e := range entities {
		r.entities[e.Name] = e
	}
	return r
}

func (r *Registry) Register(e *Entity) error {
	if _, found := r.entities[e.Name]; found {
		return errors.Wrapf(ErrDuplicateEntity, "%q", e.Name)
	}
	r.entities[e.Name] = e
	return nil
}

func (r *Registry) Lookup(name string) (*Entity, error) {
	e, found := r.entities[name]
	if !found {
		return nil, errors.Wrapf(ErrUnknownEntity, "%q", name)
	}
	return e, nil
}

func (r *Registry) Has(name string) bool {
	_, found := r.entities[name]
	return found
}

// Navigate returns the entity reached from the given entity through attribute.
func (r *Registry) Navigate(from *Entity, attribute string) (*Entity, Relation, error) {
	rel, found := from.Relation(attribute)
	if !found {
		return nil, Relation{}, errors.Wrapf(ErrUnknownRelation, "%s.%s", from.Name, attribute)
	}
	target, err := r.Lookup(rel.Target)
	if err != nil {
		return nil, Relation{}, err
	}
	return target, rel, nil
}

func (r *Registry) MustLookup(name string) *Entity {
	e, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return e
}

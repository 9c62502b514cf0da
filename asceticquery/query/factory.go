package query

import (
	"reflect"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/conversion"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
)

type FactoryOption func(*Factory)

func WithDialect(dialect Dialect) FactoryOption {
	return func(f *Factory) {
		f.dialect = dialect
	}
}

func WithMaterializer(m *conversion.Materializer) FactoryOption {
	return func(f *Factory) {
		f.materializer = m
	}
}

// Factory creates queries bound to one session. Create a new factory for the
// session handed to Atomic callbacks to run queries in the transaction.
type Factory struct {
	session      session.DbSession
	registry     *schema.Registry
	dialect      Dialect
	materializer *conversion.Materializer
}

func NewFactory(s session.DbSession, registry *schema.Registry, opts ...FactoryOption) *Factory {
	if registry == nil {
		registry = schema.NewRegistry()
	}
	f := &Factory{
		session:      s,
		registry:     registry,
		dialect:      Postgres,
		materializer: conversion.NewMaterializer(),
	}
	for i := range opts {
		opts[i](f)
	}
	return f
}

func (f *Factory) Registry() *schema.Registry {
	return f.registry
}

func (f *Factory) Dialect() Dialect {
	return f.dialect
}

func (f *Factory) NewCriteria() *Criteria {
	return newCriteria(f, nil)
}

// NewCriteriaFor creates a criteria query whose rows are materialized into
// resultType.
func (f *Factory) NewCriteriaFor(resultType reflect.Type) *Criteria {
	return newCriteria(f, resultType)
}

func (f *Factory) NewText(text string) *Text {
	return newText(f, text, nil)
}

func (f *Factory) NewTextFor(text string, resultType reflect.Type) *Text {
	return newText(f, text, resultType)
}

func (f *Factory) NewNative(sql string) *Native {
	return newNative(f, sql, nil)
}

func (f *Factory) NewNativeFor(sql string, resultType reflect.Type) *Native {
	return newNative(f, sql, resultType)
}

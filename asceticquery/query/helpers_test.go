package query

import (
	"github.com/krew-solutions/ascetic-query-go/asceticquery/schema"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/utils/testutils"
)

func newRegistry() *schema.Registry {
	return schema.NewRegistry(
		schema.NewEntity("User").
			HasMany("orders", "Order", "user_id"),
		schema.NewEntity("Order").
			BelongsTo("user", "User", "user_id").
			HasMany("lines", "OrderLine", "order_id"),
		schema.NewEntity("OrderLine"),
	)
}

func newStubFactory(rows *testutils.RowsStub, opts ...FactoryOption) (*Factory, *testutils.DbSessionStub) {
	stub := testutils.NewDbSessionStub(rows)
	return NewFactory(stub, newRegistry(), opts...), stub
}

type UserRow struct {
	ID   int64
	Name string
}

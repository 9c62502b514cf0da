package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"User", "users"},
		{"OrderLine", "order_lines"},
		{"Category", "categories"},
		{"Person", "people"},
		{"HTTPLog", "http_logs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultTableName(tt.name))
		})
	}
}

func TestEntity_Relations(t *testing.T) {
	user := NewEntity("User").HasMany("orders", "Order", "user_id")
	order := NewEntity("Order").BelongsTo("user", "User", "user_id")

	rel, ok := user.Relation("orders")
	require.True(t, ok)
	assert.Equal(t, "Order", rel.Target)
	assert.Equal(t, []ColumnPair{{SourceColumn: "id", TargetColumn: "user_id"}}, rel.Columns)

	rel, ok = order.Relation("user")
	require.True(t, ok)
	assert.Equal(t, []ColumnPair{{SourceColumn: "user_id", TargetColumn: "id"}}, rel.Columns)

	_, ok = order.Relation("missing")
	assert.False(t, ok)
}

func TestRegistry_Navigate(t *testing.T) {
	user := NewEntity("User").HasMany("orders", "Order", "user_id")
	order := NewEntity("Order").WithTable("purchase_orders")
	r := NewRegistry(user, order)

	target, rel, err := r.Navigate(user, "orders")
	require.NoError(t, err)
	assert.Same(t, order, target)
	assert.Equal(t, "orders", rel.Attribute)

	_, _, err = r.Navigate(user, "payments")
	assert.ErrorIs(t, err, ErrUnknownRelation)

	user.Relate("profile", "Profile", ColumnPair{SourceColumn: "id", TargetColumn: "user_id"})
	_, _, err = r.Navigate(user, "profile")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewEntity("User")))
	assert.True(t, r.Has("User"))
	assert.ErrorIs(t, r.Register(NewEntity("User")), ErrDuplicateEntity)

	_, err := r.Lookup("Nope")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

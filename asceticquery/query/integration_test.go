package query

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	e "github.com/krew-solutions/ascetic-query-go/asceticquery/expression"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/utils/testutils"
)

var errRollback = errors.New("rollback")

// withPgTransaction runs fn against temporary users and orders tables. The
// transaction is always rolled back. The test is skipped when no database
// is reachable.
func withPgTransaction(t *testing.T, fn func(f *Factory)) {
	t.Helper()
	pool, err := testutils.NewPgSessionPool()
	if err != nil {
		t.Skipf("postgres is not configured: %v", err)
	}
	defer pool.Close()

	connected := false
	err = pool.Session(context.Background(), func(s session.Session) error {
		connected = true
		return s.Atomic(func(tx session.Session) error {
			db, ok := session.ExtractDbSession(tx)
			require.True(t, ok)
			for _, stmt := range []string{
				"CREATE TEMP TABLE users (id int8 PRIMARY KEY, name text NOT NULL) ON COMMIT DROP",
				"CREATE TEMP TABLE orders (id int8 PRIMARY KEY, user_id int8 NOT NULL, total int8 NOT NULL) ON COMMIT DROP",
				"INSERT INTO users VALUES (1, 'Ann'), (2, 'Bob'), (3, 'Cid')",
				"INSERT INTO orders VALUES (1, 1, 10), (2, 1, 20), (3, 2, 7)",
			} {
				if _, err := db.Connection().Exec(stmt); err != nil {
					return err
				}
			}
			fn(NewFactory(db, newRegistry()))
			return errRollback
		})
	})
	if !connected {
		t.Skipf("postgres is not reachable: %v", err)
	}
	if !errors.Is(err, errRollback) {
		require.NoError(t, err)
	}
}

func TestPostgres_Criteria(t *testing.T) {
	withPgTransaction(t, func(f *Factory) {
		q := f.NewCriteria().From("User", "u").LeftJoin("u.orders", "o")
		q.Select(q.Get("name"), e.Count(q.Get("o.id"))).
			GroupBy(q.Get("name")).
			OrderBy(e.Desc(e.Count(q.Get("o.id"))), q.Get("name"))

		rows, err := q.ResultList()
		require.NoError(t, err)
		assert.Equal(t, []any{
			[]any{"Ann", int64(2)},
			[]any{"Bob", int64(1)},
			[]any{"Cid", int64(0)},
		}, rows)

		users := f.NewCriteriaFor(TypeOf[UserRow]()).From("User", "u")
		sub := users.NewSubquery().From("Order", "o")
		sub.Select(sub.Get("id")).Where(
			e.Equal(sub.Get("user_id"), users.Get("u.id")),
			e.GreaterThan(sub.Get("total"), e.Parameter("min")),
		)
		users.Select(users.Get("id"), users.Get("name")).Where(e.Exists(sub)).OrderBy(users.Get("id"))
		users.SetParameter("min", 5)

		found, err := ListOf[UserRow](users)
		require.NoError(t, err)
		assert.Equal(t, []UserRow{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bob"}}, found)
	})
}

func TestPostgres_NativeAndText(t *testing.T) {
	withPgTransaction(t, func(f *Factory) {
		total, err := ScalarOf[int64](f.NewNative("SELECT sum(total) FROM orders WHERE user_id = :user"))
		assert.ErrorIs(t, err, ErrUnboundParameter)
		assert.Zero(t, total)

		q := f.NewNative("SELECT sum(total) FROM orders WHERE user_id = :user")
		q.SetParameter("user", 1)
		total, err = ScalarOf[int64](q)
		require.NoError(t, err)
		assert.Equal(t, int64(30), total)

		text := f.NewText("UPDATE Order SET total = total + 1 WHERE user_id = :user")
		text.SetParameter("user", 1)
		affected, err := text.ExecuteUpdate()
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		names, err := PageOf[string](f.NewText("SELECT name FROM User ORDER BY id"), 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Cid"}, names)
	})
}

package query

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
	sqlsession "github.com/krew-solutions/ascetic-query-go/asceticquery/session/sql"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/utils/testutils"
)

func newMockFactory(t *testing.T, opts ...FactoryOption) (*Factory, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s := sqlsession.NewSession(context.Background(), db)
	return NewFactory(s, newRegistry(), opts...), mock
}

func TestNative_ResultList(t *testing.T) {
	f, mock := newMockFactory(t)
	day := time.Date(2024, time.March, 5, 17, 45, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, name FROM users WHERE name = $1 AND created_at::date = $2 AND note <> ':skip'").
		WithArgs("Ann", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Ann"))

	q := f.NewNative("SELECT id, name FROM users WHERE name = :name AND created_at::date = :day AND note <> ':skip'")
	q.SetParameter("name", "Ann")
	q.SetTemporalParameter("day", day, TemporalDate)

	result, err := q.ResultList()
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{int64(1), "Ann"}}, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNative_TemporalTime(t *testing.T) {
	f, mock := newMockFactory(t, WithDialect(MySQL))
	mock.ExpectQuery("SELECT id FROM shifts WHERE starts_at = ?").
		WithArgs("08:30:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	q := f.NewNative("SELECT id FROM shifts WHERE starts_at = :start")
	q.SetTemporalParameter("start", time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC), TemporalTime)

	result, err := q.ResultList()
	require.NoError(t, err)
	assert.Empty(t, result)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNative_ExecuteUpdate(t *testing.T) {
	f, mock := newMockFactory(t)
	mock.ExpectExec("UPDATE users SET active = $1 WHERE id = $2").
		WithArgs(false, 7).
		WillReturnResult(sqlmock.NewResult(0, 3))

	q := f.NewNative("UPDATE users SET active = :active WHERE id = :id")
	q.SetParameter("active", false)
	q.SetParameter("id", 7)

	affected, err := q.ExecuteUpdate()
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNative_Scalar(t *testing.T) {
	f, mock := newMockFactory(t)
	mock.ExpectQuery("SELECT count(*) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow("42"))

	count, err := ScalarOf[int64](f.NewNative("SELECT count(*) FROM users"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNative_TypedPage(t *testing.T) {
	f, mock := newMockFactory(t)
	mock.ExpectQuery("SELECT id, name FROM users ORDER BY id LIMIT 5 OFFSET 5").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(6), "Fay").
			AddRow(int64(7), "Gus"))

	q := f.NewNativeFor("SELECT id, name FROM users ORDER BY id", TypeOf[UserRow]())
	users, err := PageOf[UserRow](q, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, []UserRow{{ID: 6, Name: "Fay"}, {ID: 7, Name: "Gus"}}, users)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNative_ResultTypeMismatch(t *testing.T) {
	f, stub := newStubFactory(testutils.NewRowsStub([]string{"name"}, []any{"Ann"}))
	_, err := ListOf[int64](f.NewNative("SELECT name FROM users"))
	assert.ErrorIs(t, err, ErrResultType)
	assert.Equal(t, "SELECT name FROM users", stub.ActualQuery)
}

func TestNative_QueryErrorReachesObservers(t *testing.T) {
	f, stub := newStubFactory(nil)
	stub.QueryErr = errors.New("connection reset")
	var ended []session.QueryEndedEvent
	stub.OnQueryEnded().Attach(func(event session.QueryEndedEvent) error {
		ended = append(ended, event)
		return nil
	})

	_, err := f.NewNative("SELECT 1").ResultList()
	assert.EqualError(t, err, "connection reset")
	require.Len(t, ended, 1)
	assert.EqualError(t, ended[0].Err, "connection reset")
	assert.Equal(t, "SELECT 1", ended[0].Query)
}

func TestText_SQL(t *testing.T) {
	f, _ := newStubFactory(nil)
	cases := []struct {
		name     string
		text     string
		expected string
	}{
		{
			"select with join",
			"SELECT u.name FROM User u JOIN Order o ON o.user_id = u.id WHERE u.id = :id",
			"SELECT u.name FROM users u JOIN orders o ON o.user_id = u.id WHERE u.id = :id",
		},
		{
			"keywords are case insensitive",
			"select count(*) from OrderLine",
			"select count(*) from order_lines",
		},
		{
			"insert and update",
			"INSERT INTO OrderLine (order_id) VALUES (:order); UPDATE Order SET total = 0",
			"INSERT INTO order_lines (order_id) VALUES (:order); UPDATE orders SET total = 0",
		},
		{
			"unregistered names are left as is",
			"SELECT * FROM audit_log JOIN UserProfile p ON p.id = 1",
			"SELECT * FROM audit_log JOIN UserProfile p ON p.id = 1",
		},
		{
			"column names are not rewritten",
			"SELECT User FROM users",
			"SELECT User FROM users",
		},
		{
			"string literals are kept",
			"SELECT * FROM User u WHERE u.note = 'from User' OR u.tag = 'join Order'",
			"SELECT * FROM users u WHERE u.note = 'from User' OR u.tag = 'join Order'",
		},
		{
			"comments are kept",
			"SELECT * FROM User u -- join Order later\nJOIN Order o ON o.user_id = u.id /* from User */",
			"SELECT * FROM users u -- join Order later\nJOIN orders o ON o.user_id = u.id /* from User */",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, f.NewText(c.text).SQL())
		})
	}
}

func TestText_Execution(t *testing.T) {
	t.Run("typed single result", func(t *testing.T) {
		f, stub := newStubFactory(testutils.NewRowsStub([]string{"id", "name"}, []any{int64(3), "Cid"}))
		q := f.NewTextFor("SELECT u.id, u.name FROM User u WHERE u.id = :id", TypeOf[UserRow]())
		q.SetParameter("id", 3)

		user, err := SingleOf[UserRow](q)
		require.NoError(t, err)
		assert.Equal(t, UserRow{ID: 3, Name: "Cid"}, user)
		testutils.AssertSQL(t, "SELECT u.id, u.name FROM users u WHERE u.id = $1", stub.ActualQuery)
		assert.Equal(t, []any{3}, stub.ActualParams)
	})

	t.Run("update", func(t *testing.T) {
		f, stub := newStubFactory(nil, WithDialect(SQLite))
		stub.RowsAffected = 2
		q := f.NewText("DELETE FROM OrderLine WHERE order_id = :order")
		q.SetParameter("order", 9)

		affected, err := q.ExecuteUpdate()
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.Equal(t, "DELETE FROM order_lines WHERE order_id = ?", stub.ActualQuery)
	})

	t.Run("page", func(t *testing.T) {
		f, stub := newStubFactory(nil)
		_, err := f.NewText("SELECT * FROM User").ResultPage(1, 25)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM users LIMIT 25 OFFSET 0", stub.ActualQuery)
	})

	t.Run("unbound parameter", func(t *testing.T) {
		f, _ := newStubFactory(nil)
		_, err := f.NewText("SELECT * FROM User WHERE id = :id").ResultList()
		assert.ErrorIs(t, err, ErrUnboundParameter)
	})
}

func TestDialectFor(t *testing.T) {
	for driver, expected := range map[string]Dialect{
		"pgx":      Postgres,
		"postgres": Postgres,
		"MySQL":    MySQL,
		"sqlite":   SQLite,
	} {
		d, err := DialectFor(driver)
		require.NoError(t, err)
		assert.Equal(t, expected, d)
	}
	_, err := DialectFor("oracle")
	assert.ErrorIs(t, err, ErrUnknownDialect)
}

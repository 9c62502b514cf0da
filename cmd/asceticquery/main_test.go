package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/conversion"
)

const testSchema = `
entities:
  - name: User
    has_many:
      - {attribute: orders, target: Order, foreign_key: user_id}
  - name: Order
    belongs_to:
      - {attribute: user, target: User, foreign_key: user_id}
`

// newTestDatabase points the environment at a seeded sqlite file and returns
// the path of a schema file describing it.
func newTestDatabase(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "shop.db")

	db, err := sql.Open("sqlite", file)
	require.NoError(t, err)
	defer db.Close()
	for _, stmt := range []string{
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
		"CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL, total REAL NOT NULL)",
		"INSERT INTO users (id, name) VALUES (1, 'Ann'), (2, 'Bob'), (3, 'Cid')",
		"INSERT INTO orders (id, user_id, total) VALUES (1, 1, 10.5), (2, 1, 20), (3, 2, 7)",
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_DATABASE", file)

	schemaFile := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(schemaFile, []byte(testSchema), 0o600))
	return schemaFile
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"native", "text", "exec", "scalar", "config"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestNativeCommand(t *testing.T) {
	newTestDatabase(t)

	out, _, err := execute(t, "native", "SELECT id, name FROM users WHERE id < :max ORDER BY id", "-p", "max:int=3")
	require.NoError(t, err)
	var rows []any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []any{[]any{1, "Ann"}, []any{2, "Bob"}}, rows)

	out, _, err = execute(t, "native", "SELECT name FROM users ORDER BY id", "--page", "2", "--size", "2", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `["Cid"]`, out)
}

func TestTextCommand(t *testing.T) {
	schemaFile := newTestDatabase(t)

	out, errOut, err := execute(t, "--schema", schemaFile, "-v", "--format", "json",
		"text", "SELECT u.name, SUM(o.total) FROM User u JOIN Order o ON o.user_id = u.id WHERE u.name = :name GROUP BY u.name",
		"-p", "name=Ann")
	require.NoError(t, err)
	assert.JSONEq(t, `[["Ann", 30.5]]`, out)
	assert.Contains(t, errOut, `msg="query started"`)
	assert.Contains(t, errOut, "FROM users u JOIN orders o")
}

func TestExecAndScalarCommands(t *testing.T) {
	newTestDatabase(t)

	out, _, err := execute(t, "exec", "UPDATE users SET name = :name WHERE id = :id", "-p", "name=Zed", "-p", "id:int=3")
	require.NoError(t, err)
	assert.Equal(t, "affected: 1\n", out)

	out, _, err = execute(t, "scalar", "SELECT name FROM users WHERE id = 3")
	require.NoError(t, err)
	assert.Equal(t, "Zed\n", out)

	out, _, err = execute(t, "scalar", "SELECT count(*) FROM orders", "--type", "int")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, _, err = execute(t, "scalar", "SELECT total FROM orders WHERE id = 1", "-t", "decimal")
	require.NoError(t, err)
	assert.Equal(t, "\"10.5\"\n", out)
}

func TestCommandErrors(t *testing.T) {
	newTestDatabase(t)

	_, _, err := execute(t, "--format", "xml", "config")
	assert.ErrorContains(t, err, "invalid format")

	_, _, err = execute(t, "native", "SELECT * FROM users WHERE id = :id")
	assert.ErrorContains(t, err, "parameter is not bound")

	_, _, err = execute(t, "scalar", "SELECT 1", "--type", "bool")
	assert.ErrorContains(t, err, "unknown type")

	t.Setenv("DB_DRIVER", "oracle")
	_, _, err = execute(t, "native", "SELECT 1")
	assert.ErrorContains(t, err, "unknown dialect")
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_PASSWORD", "secret")

	out, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "driver: mysql")
	assert.NotContains(t, out, "secret")
}

func TestParseParam(t *testing.T) {
	p, err := parseParam("name=Ann=Bob")
	require.NoError(t, err)
	assert.Equal(t, "name", p.name)
	assert.Equal(t, "Ann=Bob", p.value)
	assert.Nil(t, p.temporal)

	p, err = parseParam("total:float=2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, p.value)

	p, err = parseParam("day:date=2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local), p.value)
	require.NotNil(t, p.temporal)

	id := ulid.Make()
	p, err = parseParam("ref:ulid=" + id.String())
	require.NoError(t, err)
	assert.Equal(t, id, p.value)

	_, err = parseParam("day:date=05.03.2024")
	var parseErr *conversion.ParseError
	assert.ErrorAs(t, err, &parseErr)

	_, err = parseParam("id:int=x")
	var numberErr *conversion.NumberFormatError
	assert.ErrorAs(t, err, &numberErr)

	_, err = parseParam("novalue")
	assert.Error(t, err)
}

package query

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

var ErrUnknownDialect = errors.New("unknown dialect")

func (d Dialect) PlaceholderFormat() squirrel.PlaceholderFormat {
	if d == Postgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

// DialectFor maps a database/sql driver name (or "pgx") to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx", "pq":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return "", errors.Wrapf(ErrUnknownDialect, "%q", driver)
}

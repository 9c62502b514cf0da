package main

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/config"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
	pgxsession "github.com/krew-solutions/ascetic-query-go/asceticquery/session/pgx"
	sqlsession "github.com/krew-solutions/ascetic-query-go/asceticquery/session/sql"
)

// sqlDrivers maps configured driver names to registered database/sql drivers.
var sqlDrivers = map[string]string{
	"postgres":   "postgres",
	"postgresql": "postgres",
	"pq":         "postgres",
	"mysql":      "mysql",
	"sqlite":     "sqlite",
	"sqlite3":    "sqlite",
}

// openPool returns a session pool for the configured driver. "pgx" uses a
// native pgx pool, every other driver goes through database/sql.
func openPool(ctx context.Context, cfg config.Config) (session.SessionPool, func(), error) {
	if cfg.Driver == "pgx" {
		pool, err := pgxsession.Open(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		return pool, pool.Close, nil
	}
	driver, found := sqlDrivers[cfg.Driver]
	if !found {
		return nil, nil, errors.Errorf("unsupported driver %q", cfg.Driver)
	}
	db, err := sql.Open(driver, cfg.DSN())
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to open %s database", cfg.Driver)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, errors.Wrapf(err, "unable to connect to %s database", cfg.Driver)
	}
	return sqlsession.NewSessionPool(db), func() { db.Close() }, nil
}

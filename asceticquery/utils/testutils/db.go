package testutils

import (
	"context"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/config"
	pgxsession "github.com/krew-solutions/ascetic-query-go/asceticquery/session/pgx"
)

// NewPgSessionPool connects to the database described by the DB_*
// environment variables.
func NewPgSessionPool() (*pgxsession.SessionPool, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}
	return pgxsession.Open(context.Background(), cfg.DSN())
}

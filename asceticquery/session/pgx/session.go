package pgx

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-query-go/asceticquery/session"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/session/result"
	"github.com/krew-solutions/ascetic-query-go/asceticquery/signals"
)

type querySignals struct {
	onQueryStarted signals.Signal[session.QueryStartedEvent]
	onQueryEnded   signals.Signal[session.QueryEndedEvent]
}

func newQuerySignals() querySignals {
	return querySignals{
		onQueryStarted: signals.NewSignal[session.QueryStartedEvent](),
		onQueryEnded:   signals.NewSignal[session.QueryEndedEvent](),
	}
}

func (s querySignals) OnQueryStarted() signals.Signal[session.QueryStartedEvent] {
	return s.onQueryStarted
}

func (s querySignals) OnQueryEnded() signals.Signal[session.QueryEndedEvent] {
	return s.onQueryEnded
}

// Session represents a database session without transaction
type Session struct {
	querySignals
	ctx    context.Context
	conn   *pgxpool.Conn
	parent session.Session
}

func NewSession(ctx context.Context, conn *pgxpool.Conn) *Session {
	return &Session{
		querySignals: newQuerySignals(),
		ctx:          ctx,
		conn:         conn,
		parent:       nil,
	}
}

func (s *Session) Context() context.Context {
	return s.ctx
}

func (s *Session) Connection() session.DbConnection {
	return &connection{ctx: s.ctx, exec: s.conn}
}

func (s *Session) Atomic(callback session.SessionCallback) error {
	tx, err := s.conn.Begin(s.ctx)
	if err != nil {
		return errors.Wrap(err, "unable to start transaction")
	}
	return runAtomic(s.ctx, tx, NewTransactionSession(s.ctx, tx, s.querySignals, s), callback, "transaction")
}

// TransactionSession represents a session inside transaction.
// Nested Atomic calls open savepoints.
type TransactionSession struct {
	querySignals
	ctx    context.Context
	tx     pgx.Tx
	parent session.Session
}

func NewTransactionSession(ctx context.Context, tx pgx.Tx, qs querySignals, parent session.Session) *TransactionSession {
	return &TransactionSession{
		querySignals: qs,
		ctx:          ctx,
		tx:           tx,
		parent:       parent,
	}
}

func (s *TransactionSession) Context() context.Context {
	return s.ctx
}

func (s *TransactionSession) Connection() session.DbConnection {
	return &connection{ctx: s.ctx, exec: s.tx}
}

func (s *TransactionSession) Atomic(callback session.SessionCallback) error {
	nestedTx, err := s.tx.Begin(s.ctx)
	if err != nil {
		return errors.Wrap(err, "unable to start savepoint")
	}
	return runAtomic(s.ctx, nestedTx, NewTransactionSession(s.ctx, nestedTx, s.querySignals, s), callback, "savepoint")
}

func runAtomic(ctx context.Context, tx pgx.Tx, txSession session.Session, callback session.SessionCallback, label string) error {
	err := callback(txSession)
	if err != nil {
		if txErr := tx.Rollback(ctx); txErr != nil {
			return multierror.Append(err, txErr)
		}
		return err
	}
	if txErr := tx.Commit(ctx); txErr != nil {
		return errors.Wrapf(txErr, "failed to commit %s", label)
	}
	return nil
}

// executor interface for both *pgxpool.Conn and pgx.Tx
type executor interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// connection implements session.DbConnection
type connection struct {
	ctx  context.Context
	exec executor
}

func (c *connection) Exec(query string, args ...any) (session.Result, error) {
	tag, err := c.exec.Exec(c.ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return result.NewResult(0, tag.RowsAffected()), nil
}

func (c *connection) Query(query string, args ...any) (session.Rows, error) {
	rows, err := c.exec.Query(c.ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &rowsAdapter{rows: rows}, nil
}

func (c *connection) QueryRow(query string, args ...any) session.Row {
	row := c.exec.QueryRow(c.ctx, query, args...)
	return &rowAdapter{row: row}
}

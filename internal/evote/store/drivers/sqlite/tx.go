package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/evote/internal/evote/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op for transactions; the connection is already held.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Projects() store.Projects { return &projectsRepo{q: t.tx} }
func (t *txStore) Voters() store.Voters     { return &votersRepo{q: t.tx} }
func (t *txStore) OTPCodes() store.OTPCodes { return &otpCodesRepo{q: t.tx} }
func (t *txStore) Agendas() store.Agendas   { return &agendasRepo{q: t.tx} }
func (t *txStore) Options() store.Options   { return &optionsRepo{q: t.tx} }
func (t *txStore) Votes() store.Votes       { return &votesRepo{q: t.tx} }
func (t *txStore) Admins() store.Admins     { return &adminsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx

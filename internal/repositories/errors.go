package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx.
// Every repository method takes one so that reads issued inside a transaction
// see transactional state, and so that non-SQL backends can ignore it.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// Tx is one storage transaction. Each top-level service operation runs inside
// exactly one Tx; all of its invariant-checking reads and mutating writes go
// through it.
type Tx interface {
	SQLExecutor
	Commit() error
	Rollback() error
}

// TxManager hands out transactions. The Postgres implementation wraps
// *sql.DB; the in-memory implementation hands out an exclusive lock on the
// store so each operation is atomic and readers never observe a half-applied
// mutation.
type TxManager interface {
	Begin() (Tx, error)
}

type sqlTxManager struct {
	db *sql.DB
}

// NewSQLTxManager creates a TxManager backed by database/sql transactions.
func NewSQLTxManager(db *sql.DB) TxManager {
	return &sqlTxManager{db: db}
}

func (m *sqlTxManager) Begin() (Tx, error) {
	tx, err := m.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %v", ErrDatabaseError, err)
	}
	return tx, nil
}

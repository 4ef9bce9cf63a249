package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// DataAccessError reports a failed round trip to the store: connectivity,
// query or constraint failures. Missing rows are not errors.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// IsConstraint reports whether the write was rejected by a unique,
// foreign key or check constraint.
func (e *DataAccessError) IsConstraint() bool {
	var pgErr *pgconn.PgError
	if !errors.As(e.Err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation:
		return true
	}
	return false
}

// Constraint returns the violated constraint name, if any.
func (e *DataAccessError) Constraint() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// dataAccessError logs err where it happened and wraps it.
func dataAccessError(op string, err error) error {
	log.Errorf("error [%s] %v", op, err)
	return &DataAccessError{Op: op, Err: err}
}

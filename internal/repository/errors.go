package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrOrderNotFound возвращается, если заказ с указанным ключом не сохранён.
var ErrOrderNotFound = errors.New("order not found")

// PersistenceError описывает ошибку чтения или записи хранилища.
type PersistenceError struct {
	Op   string
	Code string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("persistence %s (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}

	pe := &PersistenceError{Op: op, Err: err}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		pe.Code = pgErr.Code
		switch {
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
			pe.Code = "integrity_constraint_violation:" + pgErr.Code
		case pgerrcode.IsDataException(pgErr.Code):
			pe.Code = "data_exception:" + pgErr.Code
		case pgerrcode.IsConnectionException(pgErr.Code):
			pe.Code = "connection_exception:" + pgErr.Code
		}
	}

	return pe
}

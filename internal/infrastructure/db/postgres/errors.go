package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gigindia/marketplace/internal/core/domain"
)

const uniqueViolation = "23505"

// storeError converts a driver error into a *domain.DataStoreError, keeping
// the server's message, detail and SQLSTATE when there is one. Client-side
// failures (dial, timeout, pool) carry the driver's own message.
func storeError(op string, err error) *domain.DataStoreError {
	dse := &domain.DataStoreError{Op: op, Cause: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		dse.Message = pgErr.Message
		dse.Detail = pgErr.Detail
		dse.Code = pgErr.Code
		return dse
	}
	dse.Message = err.Error()
	return dse
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

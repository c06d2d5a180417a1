package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
// Callers map it to the appropriate domain error (AlreadyJoined, AlreadyVoted,
// join-code collision retry).
var ErrDuplicate = errors.New("duplicate key")

const uniqueViolationCode = "23505"

func mapInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicate
	}
	return err
}

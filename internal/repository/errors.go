package repository

import (
	"errors"

	"github.com/Domenick1991/sejour/internal/apperror"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// ErrBookingOverlap is returned when the bookings exclusion constraint
// rejects an insert that raced past the overlap check.
var ErrBookingOverlap = apperror.BadRequest("property is already booked for the requested dates")

// notFound turns pgx.ErrNoRows into a NotFound with msg; other errors pass through.
func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("%s", msg)
	}
	return err
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

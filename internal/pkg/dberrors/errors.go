package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// IsDuplicateKeyError reports whether err is a PostgreSQL unique violation.
func IsDuplicateKeyError(err error) bool {
	return hasCode(err, uniqueViolation)
}

// IsForeignKeyError reports whether err references a missing parent row.
func IsForeignKeyError(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

// IsCheckViolation reports whether err violated a CHECK constraint.
func IsCheckViolation(err error) bool {
	return hasCode(err, checkViolation)
}

// IsConstraintViolation reports any integrity-constraint failure (class 23).
func IsConstraintViolation(err error) bool {
	return hasClass(err, "23")
}

// IsDataException reports a value the column cannot hold, such as an
// overlong string or an out-of-range number (class 22).
func IsDataException(err error) bool {
	return hasClass(err, "22")
}

func hasClass(err error, class string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == class
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

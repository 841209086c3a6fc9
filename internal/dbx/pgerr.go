package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate into domain errors.
const (
	pgUniqueViolation  = "23505"
	pgInvalidTextRepr  = "22P02"
	pgForeignKeyViolat = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsInvalidInput reports whether err was caused by a malformed literal,
// such as a non-UUID string compared against a UUID column.
func IsInvalidInput(err error) bool {
	return pgCode(err) == pgInvalidTextRepr
}

// IsForeignKeyViolation reports whether err references a missing parent row.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgForeignKeyViolat
}

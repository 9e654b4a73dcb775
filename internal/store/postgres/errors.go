package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation. The unique indexes on organizations.name, organizations
// .partition_name, admins.email and admins.org_id are the authoritative
// enforcement points for the registry's uniqueness invariants - the
// pre-insert existence checks in the lifecycle manager are advisory only.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation
}

// isDuplicateSchema reports whether err indicates the target schema of a
// rename already exists.
func isDuplicateSchema(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.DuplicateSchema
}

// isUndefinedObject reports whether err indicates a missing schema or
// table. Used by the partition adapter's tolerant rename policy.
func isUndefinedObject(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.InvalidSchemaName ||
		pgErr.Code == pgerrcode.UndefinedTable ||
		pgErr.Code == pgerrcode.UndefinedObject
}

package dbx

// SQLSTATE codes repositories check when translating constraint violations
// into domain errors.
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)

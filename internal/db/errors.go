package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for integrity violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// UniqueViolationColumn reports the column behind a unique constraint failure.
// It understands both SQLite error text and PostgreSQL errors.
func UniqueViolationColumn(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		if column := columnFromPgDetail(pgErr.Detail); column != "" {
			return column, true
		}
		return columnFromConstraint(pgErr.TableName, pgErr.ConstraintName), true
	}

	const marker = "UNIQUE constraint failed: "
	msg := err.Error()
	idx := strings.Index(msg, marker)
	if idx < 0 {
		return "", false
	}
	rest := msg[idx+len(marker):]
	if end := strings.IndexAny(rest, " ,("); end >= 0 {
		rest = rest[:end]
	}
	if dot := strings.LastIndex(rest, "."); dot >= 0 {
		rest = rest[dot+1:]
	}
	return strings.TrimSpace(rest), true
}

// IsForeignKeyViolation reports whether err is a foreign key failure.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// columnFromPgDetail extracts "username" from `Key (username)=(alice) already exists.`
func columnFromPgDetail(detail string) string {
	start := strings.Index(detail, "Key (")
	if start < 0 {
		return ""
	}
	rest := detail[start+len("Key ("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// columnFromConstraint strips gorm's idx_/uni_ and table prefixes from a constraint name.
func columnFromConstraint(table, constraint string) string {
	name := constraint
	for _, prefix := range []string{"idx_", "uni_"} {
		name = strings.TrimPrefix(name, prefix)
	}
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	}
	return name
}

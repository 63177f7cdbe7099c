package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/router-for-me/calculator-api/internal/models"
)

func TestDialectForDSN(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/calc?sslmode=disable": DialectPostgres,
		"postgresql://localhost/calc":                        DialectPostgres,
		"host=localhost user=calc dbname=calc":               DialectPostgres,
		"calculator.db":                                      DialectSQLite,
		"file:/tmp/calc.db":                                  DialectSQLite,
	}
	for dsn, want := range cases {
		if got := DialectForDSN(dsn); got != want {
			t.Fatalf("DialectForDSN(%q) = %q, want %q", dsn, got, want)
		}
	}
}

func TestNormalizeSQLiteDSN(t *testing.T) {
	got := NormalizeSQLiteDSN("sqlite://data/calc.db")
	want := "file:data/calc.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	custom := "file:calc.db?_pragma=foreign_keys(1)"
	if got := NormalizeSQLiteDSN(custom); got != custom {
		t.Fatalf("expected custom pragmas to be preserved, got %q", got)
	}

	withQuery := NormalizeSQLiteDSN("file:calc.db?mode=rwc")
	if want := "file:calc.db?mode=rwc&_pragma=busy_timeout(5000)"; withQuery[:len(want)] != want {
		t.Fatalf("expected query to be extended, got %q", withQuery)
	}
}

func TestMigrateAndUniqueViolation(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "calc-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = Close(conn) })

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	if !IsSQLite(conn) {
		t.Fatalf("expected sqlite dialect, got %q", DialectName(conn))
	}

	user := models.User{Username: "alice", Email: "alice@x.com", PasswordHash: "hash"}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}

	dupUsername := models.User{Username: "alice", Email: "other@x.com", PasswordHash: "hash"}
	errDup := conn.Create(&dupUsername).Error
	if column, ok := UniqueViolationColumn(errDup); !ok || column != "username" {
		t.Fatalf("expected username violation, got column=%q ok=%v err=%v", column, ok, errDup)
	}

	dupEmail := models.User{Username: "bob", Email: "alice@x.com", PasswordHash: "hash"}
	errDup = conn.Create(&dupEmail).Error
	if column, ok := UniqueViolationColumn(errDup); !ok || column != "email" {
		t.Fatalf("expected email violation, got column=%q ok=%v err=%v", column, ok, errDup)
	}

	orphan := models.Calculation{UserID: user.ID + 100, Operation: "add", Operand1: 1, Operand2: 2, Result: 3}
	errOrphan := conn.Omit("User").Create(&orphan).Error
	if !IsForeignKeyViolation(errOrphan) {
		t.Fatalf("expected foreign key violation, got %v", errOrphan)
	}

	if errPing := Ping(context.Background(), conn); errPing != nil {
		t.Fatalf("ping: %v", errPing)
	}
}

func TestUniqueViolationColumn_Postgres(t *testing.T) {
	withDetail := fmt.Errorf("create: %w", &pgconn.PgError{
		Code:   "23505",
		Detail: "Key (email)=(alice@x.com) already exists.",
	})
	if column, ok := UniqueViolationColumn(withDetail); !ok || column != "email" {
		t.Fatalf("expected email, got %q ok=%v", column, ok)
	}

	withConstraint := &pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "idx_users_username"}
	if column, ok := UniqueViolationColumn(withConstraint); !ok || column != "username" {
		t.Fatalf("expected username, got %q ok=%v", column, ok)
	}

	if _, ok := UniqueViolationColumn(&pgconn.PgError{Code: "23503"}); ok {
		t.Fatalf("foreign key error must not be reported as unique violation")
	}
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("expected foreign key violation")
	}
	if _, ok := UniqueViolationColumn(errors.New("boom")); ok {
		t.Fatalf("plain error must not be a unique violation")
	}
}

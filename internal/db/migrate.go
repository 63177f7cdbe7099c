package db

import (
	"fmt"

	"github.com/router-for-me/calculator-api/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate runs database migrations for the current dialect.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	switch DialectName(conn) {
	case DialectSQLite:
		return migrateSQLite(conn)
	case DialectPostgres, "":
		return migratePostgres(conn)
	default:
		return fmt.Errorf("db: unsupported dialect: %s", DialectName(conn))
	}
}

// migrateSQLite applies SQLite schema updates and checks foreign key enforcement.
func migrateSQLite(conn *gorm.DB) error {
	if errAutoMigrate := conn.AutoMigrate(&models.User{}, &models.Calculation{}); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	if errIndex := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_calculations_user_recent
		ON calculations (user_id, created_at DESC, id DESC)
	`).Error; errIndex != nil {
		return fmt.Errorf("db: create calculations recent index: %w", errIndex)
	}

	var foreignKeys int
	if errPragma := conn.Raw("PRAGMA foreign_keys").Scan(&foreignKeys).Error; errPragma != nil {
		return fmt.Errorf("db: read foreign_keys pragma: %w", errPragma)
	}
	if foreignKeys != 1 {
		log.Warn("db: sqlite foreign key enforcement is off; calculation ownership is only checked in application code")
	}
	return nil
}

// migratePostgres applies PostgreSQL schema updates and indexes.
func migratePostgres(conn *gorm.DB) error {
	if errAutoMigrate := conn.AutoMigrate(&models.User{}, &models.Calculation{}); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	if errIndex := conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_calculations_user_recent
		ON calculations (user_id, created_at DESC, id DESC)
	`).Error; errIndex != nil {
		return fmt.Errorf("db: create calculations recent index: %w", errIndex)
	}
	if errNotNull := conn.Exec(`
		ALTER TABLE calculations
		ALTER COLUMN created_at SET DEFAULT now()
	`).Error; errNotNull != nil {
		return fmt.Errorf("db: default calculations created_at: %w", errNotNull)
	}
	if errUsersDefault := conn.Exec(`
		ALTER TABLE users
		ALTER COLUMN created_at SET DEFAULT now()
	`).Error; errUsersDefault != nil {
		return fmt.Errorf("db: default users created_at: %w", errUsersDefault)
	}
	return nil
}

package database

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// SQLiteDialect implements Dialect for SQLite through the cgo driver
type SQLiteDialect struct{}

// NewSQLiteDialect creates a new SQLite dialect
func NewSQLiteDialect() *SQLiteDialect {
	return &SQLiteDialect{}
}

func (d *SQLiteDialect) DriverName() string {
	return "sqlite3"
}

// DSN sets pragmas per connection, since the pool opens more than one
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	return config.Path + querySeparator(config.Path) + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
}

func (d *SQLiteDialect) RewriteQuery(query string) string {
	return query
}

func (d *SQLiteDialect) SupportsLastInsertId() bool {
	return true
}

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (d *SQLiteDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return sqliteMigrationsTable
}

// ModerncDialect implements Dialect for SQLite through the pure-Go driver.
// It shares the sqlite migrations and needs no cgo toolchain.
type ModerncDialect struct{}

// NewModerncDialect creates a new pure-Go SQLite dialect
func NewModerncDialect() *ModerncDialect {
	return &ModerncDialect{}
}

func (d *ModerncDialect) DriverName() string {
	return "sqlite"
}

// DSN sets pragmas per connection, since the pool opens more than one
func (d *ModerncDialect) DSN(config DialectConfig) string {
	return config.Path + querySeparator(config.Path) + "_pragma=foreign_keys(1)&_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
}

func (d *ModerncDialect) RewriteQuery(query string) string {
	return query
}

func (d *ModerncDialect) SupportsLastInsertId() bool {
	return true
}

func (d *ModerncDialect) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (d *ModerncDialect) MigrationsSubdir() string {
	return "sqlite"
}

func (d *ModerncDialect) CreateMigrationsTableQuery() string {
	return sqliteMigrationsTable
}

func querySeparator(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&"
	}
	return "?"
}

package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialects(t *testing.T) {
	tests := []struct {
		name             string
		dialect          Dialect
		driver           string
		lastInsertID     bool
		migrationsSubdir string
	}{
		{"SQLite", NewSQLiteDialect(), "sqlite3", true, "sqlite"},
		{"Modernc", NewModerncDialect(), "sqlite", true, "sqlite"},
		{"PostgreSQL", NewPostgresDialect(), "postgres", false, "postgres"},
		{"MySQL", NewMySQLDialect(), "mysql", true, "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.driver, tt.dialect.DriverName())
			assert.Equal(t, tt.lastInsertID, tt.dialect.SupportsLastInsertId())
			assert.Equal(t, tt.migrationsSubdir, tt.dialect.MigrationsSubdir())
			assert.Contains(t, tt.dialect.CreateMigrationsTableQuery(), "CREATE TABLE IF NOT EXISTS migrations")
		})
	}
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM children WHERE id = ?",
			expected: "SELECT * FROM children WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM children WHERE id = ?",
			expected: "SELECT * FROM children WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO children (name, age_months) VALUES (?, ?)",
			expected: "INSERT INTO children (name, age_months) VALUES ($1, $2)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE children SET name = ?, age_months = ? WHERE id = ?",
			expected: "UPDATE children SET name = ?, age_months = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.RewriteQuery(tt.query))
		})
	}
}

func TestDSN(t *testing.T) {
	t.Run("MySQL adds multiStatements", func(t *testing.T) {
		d := NewMySQLDialect()
		assert.Equal(t, "user:pw@tcp(db:3306)/tummy?multiStatements=true", d.DSN(DialectConfig{URL: "user:pw@tcp(db:3306)/tummy"}))
		assert.Equal(t, "u@/t?parseTime=true&multiStatements=true", d.DSN(DialectConfig{URL: "u@/t?parseTime=true"}))
		assert.Equal(t, "u@/t?multiStatements=false", d.DSN(DialectConfig{URL: "u@/t?multiStatements=false"}))
	})

	t.Run("Modernc sets pragmas", func(t *testing.T) {
		dsn := NewModerncDialect().DSN(DialectConfig{Path: "/tmp/tummy.db"})
		assert.Contains(t, dsn, "/tmp/tummy.db?")
		assert.Contains(t, dsn, "_pragma=foreign_keys(1)")
	})
}

func TestDialectFor(t *testing.T) {
	d, cfg, err := DialectFor("postgresql", "", "postgres://localhost/tummy")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.DriverName())
	assert.Equal(t, "postgres://localhost/tummy", cfg.URL)

	d, cfg, err = DialectFor("", "tummy.db", "")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d.DriverName())
	assert.Equal(t, "tummy.db", cfg.Path)

	_, _, err = DialectFor("oracle", "", "")
	assert.Error(t, err)
}

func TestTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 1, 123456000, time.FixedZone("X", 3600))
	formatted := FormatTime(ts)
	assert.Equal(t, "2024-03-09T06:05:01.123456Z", formatted)
	assert.True(t, ParseTime(formatted).Equal(ts))
	assert.True(t, ParseTime("garbage").IsZero())
}

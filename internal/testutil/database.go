package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the embedded migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Trade table
		CREATE TABLE trade (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			trade_id VARCHAR(100) NOT NULL DEFAULT '',
			type VARCHAR(20) NOT NULL,
			time DATETIME NOT NULL,
			buy_currency VARCHAR(20) NOT NULL DEFAULT '',
			sell_currency VARCHAR(20) NOT NULL DEFAULT '',
			fee_currency VARCHAR(20) NOT NULL DEFAULT '',
			buy_amount TEXT NOT NULL,
			sell_amount TEXT NOT NULL,
			fee_amount TEXT NOT NULL,
			buy_value_usd TEXT,
			sell_value_usd TEXT,
			exchange VARCHAR(100) NOT NULL DEFAULT '',
			trade_group VARCHAR(100) NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			imported_from VARCHAR(100) NOT NULL DEFAULT '',
			imported_time DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT trade_identity UNIQUE (
				trade_id, type, time,
				buy_currency, sell_currency, fee_currency,
				buy_amount, sell_amount, fee_amount
			)
		);

		CREATE INDEX idx_trade_time ON trade (time);

		-- Report table
		CREATE TABLE report (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			generated_at DATETIME NOT NULL,
			trade_count INTEGER NOT NULL,
			transaction_count INTEGER NOT NULL,
			total_gain TEXT NOT NULL
		);

		-- Report transaction table
		CREATE TABLE report_transaction (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			report_id VARCHAR(36) NOT NULL,
			position INTEGER NOT NULL,
			amount TEXT NOT NULL,
			currency VARCHAR(20) NOT NULL,
			basis TEXT NOT NULL,
			proceeds TEXT NOT NULL,
			gain TEXT NOT NULL,
			buy_time DATETIME NOT NULL,
			sell_time DATETIME NOT NULL,
			tax_year INTEGER NOT NULL,
			time_held_seconds INTEGER NOT NULL,
			is_long BOOLEAN NOT NULL,
			buy_exchange VARCHAR(100) NOT NULL DEFAULT '',
			sell_exchange VARCHAR(100) NOT NULL DEFAULT '',
			comment TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (report_id) REFERENCES report (id) ON DELETE CASCADE
		);

		CREATE INDEX idx_report_transaction_report ON report_transaction (report_id, position);

		-- Sync configuration table
		CREATE TABLE sync_config (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			api_key TEXT NOT NULL,
			api_secret TEXT NOT NULL,
			auto_sync_enabled BOOLEAN NOT NULL DEFAULT 0,
			last_sync_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := db.Exec(schema)
	return err
}

// CleanDatabase truncates all tables in dependency order.
// Useful for reusing the same database across multiple tests.
func CleanDatabase(t *testing.T, db *sql.DB) {
	t.Helper()

	// Order matters: delete children before parents due to foreign keys
	tables := []string{
		"report_transaction",
		"report",
		"sync_config",
		"trade",
	}

	for _, table := range tables {
		query := "DELETE FROM " + table
		if _, err := db.Exec(query); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// CountRows returns the number of rows in a table.
// Useful for assertions in tests.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	query := "SELECT COUNT(*) FROM " + table
	err := db.QueryRow(query).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}

	return count
}

// AssertRowCount asserts that a table has the expected number of rows.
//
// Example usage:
//
//	testutil.AssertRowCount(t, db, "trade", 2)
func AssertRowCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()

	actual := CountRows(t, db, table)
	if actual != expected {
		t.Errorf("Expected %d rows in %s, got %d", expected, table, actual)
	}
}

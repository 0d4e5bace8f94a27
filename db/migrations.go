package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migrate runs all table creation statements. Safe to call multiple times
// due to IF NOT EXISTS clauses.
func Migrate(db *sql.DB) error {
	slog.Info("running database migrations")

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w\nstatement: %s", err, stmt)
		}
	}

	slog.Info("database migrations complete")
	return nil
}

// Decimal amounts are stored as TEXT so they round-trip through
// shopspring/decimal without floating-point drift.
var migrations = []string{
	// Customers: bookshop account holders
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_number TEXT NOT NULL UNIQUE CHECK(length(account_number) <= 20),
		name TEXT NOT NULL CHECK(length(name) <= 100),
		address TEXT NOT NULL,
		telephone_number TEXT NOT NULL CHECK(length(telephone_number) <= 20),
		units_consumed TEXT NOT NULL DEFAULT '0',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Items: books and products in the inventory
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_code TEXT NOT NULL UNIQUE CHECK(length(item_code) <= 20),
		item_name TEXT NOT NULL CHECK(length(item_name) <= 100),
		description TEXT,
		unit_price TEXT NOT NULL,
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK(stock_quantity >= 0),
		category TEXT CHECK(category IS NULL OR length(category) <= 50),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	// Bills: billing headers, one customer each
	`CREATE TABLE IF NOT EXISTS bills (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bill_number TEXT NOT NULL UNIQUE CHECK(length(bill_number) <= 20),
		customer_id INTEGER NOT NULL,
		bill_date DATE NOT NULL,
		units_billed TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'PENDING' CHECK(payment_status IN ('PENDING', 'PAID', 'CANCELLED', 'REFUNDED')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
	)`,

	// Bill items: one line per (bill, item) with price captured at billing time
	`CREATE TABLE IF NOT EXISTS bill_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bill_id INTEGER NOT NULL,
		item_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL CHECK(quantity > 0),
		unit_price TEXT NOT NULL,
		total_price TEXT NOT NULL,
		FOREIGN KEY (bill_id) REFERENCES bills(id) ON DELETE CASCADE,
		FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE RESTRICT
	)`,

	// Indexes for common queries
	`CREATE INDEX IF NOT EXISTS idx_bills_customer ON bills(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bills_status ON bills(payment_status)`,
	`CREATE INDEX IF NOT EXISTS idx_bill_items_bill ON bill_items(bill_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bill_items_item ON bill_items(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_category ON items(category)`,
}

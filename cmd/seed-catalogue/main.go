// Package main seeds the read-only SQLite Catalogue fixture (products,
// brands, price tiers, stock and sale records) that stands in for the
// external Catalogue/Stock/Ledger collaborator.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS brands (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	country TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY,
	sku TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	brand_id INTEGER NOT NULL REFERENCES brands(id),
	sale_price TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand_id);

CREATE TABLE IF NOT EXISTS price_tiers (
	product_id INTEGER NOT NULL REFERENCES products(id),
	min_qty INTEGER NOT NULL,
	unit_price TEXT NOT NULL,
	PRIMARY KEY (product_id, min_qty)
);

CREATE TABLE IF NOT EXISTS stock (
	warehouse_id INTEGER NOT NULL,
	product_id INTEGER NOT NULL REFERENCES products(id),
	quantity TEXT NOT NULL,
	PRIMARY KEY (warehouse_id, product_id)
);

CREATE TABLE IF NOT EXISTS sale_records (
	product_id INTEGER NOT NULL REFERENCES products(id),
	timestamp INTEGER NOT NULL,
	quantity INTEGER NOT NULL,
	status TEXT NOT NULL,
	doc_type TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_records_product_time ON sale_records(product_id, timestamp);
`

func main() {
	path := flag.String("path", "data/catalogue/catalogue.db", "path to the SQLite catalogue fixture")
	seed := flag.Bool("seed", true, "insert sample brands/products/tiers/stock/sales")
	flag.Parse()

	db, err := sql.Open("sqlite3", *path)
	if err != nil {
		log.Fatalf("Failed to open catalogue database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping catalogue database: %v", err)
	}
	fmt.Println("Connected to catalogue database")

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	fmt.Println("Schema applied")

	if *seed {
		if err := seedSampleData(db); err != nil {
			log.Fatalf("Failed to seed sample data: %v", err)
		}
		fmt.Println("Sample data seeded")
	}

	var tableCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table'`).Scan(&tableCount); err != nil {
		log.Fatalf("Failed to query tables: %v", err)
	}
	fmt.Printf("Catalogue database contains %d tables\n", tableCount)
}

func seedSampleData(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO brands (id, name, country) VALUES
		(1, 'Nordgrove', 'DE'), (2, 'Silvanta', 'PL')`); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT OR IGNORE INTO products (id, sku, name, brand_id, sale_price) VALUES
		(101, 'NG-SHM-250', 'Nordgrove Shampoo 250ml', 1, '4.99'),
		(102, 'NG-SOAP-100', 'Nordgrove Soap Bar 100g', 1, '2.49'),
		(201, 'SV-CRM-050', 'Silvanta Face Cream 50ml', 2, '12.90')`); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT OR IGNORE INTO price_tiers (product_id, min_qty, unit_price) VALUES
		(101, 1, '3.50'), (101, 50, '3.10'), (101, 200, '2.75'),
		(102, 1, '1.80'), (102, 100, '1.55'),
		(201, 1, '9.80'), (201, 25, '8.90')`); err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT OR IGNORE INTO stock (warehouse_id, product_id, quantity) VALUES
		(1, 101, '40'), (1, 102, '120'), (1, 201, '15')`); err != nil {
		return err
	}

	now := time.Now().Unix()
	day := int64(86400)
	for i := int64(0); i < 30; i++ {
		ts := now - i*day
		if _, err := tx.Exec(`INSERT INTO sale_records (product_id, timestamp, quantity, status, doc_type) VALUES (?, ?, ?, 'posted', 'sale')`,
			101, ts, 8+i%5); err != nil {
			return err
		}
		if _, err := tx.Exec(`INSERT INTO sale_records (product_id, timestamp, quantity, status, doc_type) VALUES (?, ?, ?, 'posted', 'sale')`,
			201, ts, 2+i%3); err != nil {
			return err
		}
	}

	return tx.Commit()
}

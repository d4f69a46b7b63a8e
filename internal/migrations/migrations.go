package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema for the pharmacy counter.
//
// The medicines table id is assigned by the inventory service (max+1), not
// by AUTOINCREMENT, so deleting the highest row reuses its id.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
            username TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY,
            name TEXT NOT NULL,
            type TEXT,
            qty_left INTEGER NOT NULL DEFAULT 0,
            cost REAL NOT NULL DEFAULT 0,
            purpose TEXT,
            exp_date TEXT,
            rack TEXT,
            mfg TEXT
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}

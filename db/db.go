package db

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"coursereg/validate"
)

var DB *sql.DB

// InitDB opens the SQLite database and creates the schema. The
// submissions table gets one column per choice slot of the profile,
// so the flat and split form shapes share one code path. A single
// write connection serializes concurrent appends and makes credential
// rotation a critical section; identifier uniqueness comes from
// AUTOINCREMENT.
func InitDB(dataSourceName string, profile validate.Profile) {
	var err error
	DB, err = sql.Open("sqlite3", dataSourceName+"?_busy_timeout=5000")
	if err != nil {
		log.Fatal(err)
	}
	DB.SetMaxOpenConns(1)

	createTables := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS admins (
		username TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		is_default INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		%s
		remarks TEXT NOT NULL DEFAULT '',
		submission_date TEXT NOT NULL
	);
	`, choiceColumns(profile))

	_, err = DB.Exec(createTables)
	if err != nil {
		log.Fatalf("Error creating tables: %v", err)
	}
}

func choiceColumns(profile validate.Profile) string {
	var b strings.Builder
	for _, col := range profile.Columns() {
		fmt.Fprintf(&b, "%s TEXT NOT NULL,\n\t\t", col)
	}
	return b.String()
}

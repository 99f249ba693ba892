package main

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

// runMigrations executes a goose migration command against the connected
// database. Supported commands are up, down, and status.
func runMigrations(db *sql.DB, command, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.Up(db, dir)
	case "down":
		return goose.Down(db, dir)
	case "status":
		return goose.Status(db, dir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

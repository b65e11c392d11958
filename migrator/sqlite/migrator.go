package sqlite

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log"

	"github.com/GuiaBolso/darwin"
	"github.com/diegoclair/sqlmigrator"
)

const migrationsDir = "sql"

// SqlFiles holds the local store schema: session, week snapshots and move history.
//
//go:embed sql/*.sql
var SqlFiles embed.FS

// Migrate brings the board's local store up to the latest schema. Applied
// migrations are skipped, so it runs on every start.
func Migrate(db *sql.DB) error {
	files, err := fs.Glob(SqlFiles, migrationsDir+"/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list store migrations: %w", err)
	}
	log.Printf("Checking local store schema (%d migrations)...", len(files))

	migrator := sqlmigrator.New(db, darwin.SqliteDialect{})
	if err := migrator.Migrate(SqlFiles, migrationsDir); err != nil {
		return fmt.Errorf("failed to migrate local store: %w", err)
	}
	return nil
}

package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"

	schema "github.com/Simplici0/houtcalc/migrations"
)

// Up runs all pending SQL migrations found in fsys.
func Up(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run goose up migrations: %w", err)
	}

	return nil
}

// Source returns the migrations directory when set, else the embedded set.
func Source(dir string) fs.FS {
	if dir == "" {
		return schema.FS
	}
	return os.DirFS(dir)
}

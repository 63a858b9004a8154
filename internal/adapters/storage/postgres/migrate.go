package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io"
	"log"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func setupGoose() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	return nil
}

// Migrate aplica las migraciones embebidas pendientes.
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, migrationsDir)
}

// MigrateDown revierte la última migración aplicada.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.DownContext(ctx, db, migrationsDir)
}

// MigrationStatus escribe en w una línea por migración (fecha de aplicación o Pending).
func MigrationStatus(ctx context.Context, db *sql.DB, w io.Writer) error {
	if err := setupGoose(); err != nil {
		return err
	}
	goose.SetLogger(log.New(w, "", 0))
	defer goose.SetLogger(log.New(io.Discard, "", 0))
	return goose.StatusContext(ctx, db, migrationsDir)
}

// MigrationVersion devuelve la versión aplicada (0 = ninguna).
func MigrationVersion(ctx context.Context, db *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}

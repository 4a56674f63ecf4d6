package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"quiz-admin/database/migrations"
	"quiz-admin/internal/config"
	"quiz-admin/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Direction selects which migration files are applied.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies (or rolls back) the embedded migrations for driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string, direction Direction) error {
	switch driver {
	case config.DriverPostgres:
		return runPostgresMigrations(db, direction)
	case config.DriverOracle:
		return runOracleMigrations(ctx, db, direction)
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}

func runPostgresMigrations(db *sql.DB, direction Direction) error {
	src, err := iofs.New(migrations.FS, config.DriverPostgres)
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}
	drv, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, config.DriverPostgres, drv)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if direction == Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", direction, err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return fmt.Errorf("could not read migration version: %w", verr)
	}
	logger.Get().Info("Migrations completed", zap.String("driver", config.DriverPostgres),
		zap.String("direction", string(direction)), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// migrationFile is one embedded script, e.g. 000002_create_question_bank.up.sql.
type migrationFile struct {
	Version int
	Name    string
}

func listMigrations(fsys fs.FS, dir string, direction Direction) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}

	suffix := "." + string(direction) + ".sql"
	var files []migrationFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		prefix, _, ok := strings.Cut(entry.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s has no version prefix", entry.Name())
		}
		version, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s has an invalid version: %w", entry.Name(), err)
		}
		files = append(files, migrationFile{Version: version, Name: entry.Name()})
	}

	sort.Slice(files, func(i, j int) bool {
		if direction == Down {
			return files[i].Version > files[j].Version
		}
		return files[i].Version < files[j].Version
	})
	return files, nil
}

// splitStatements breaks a script into single statements. Oracle rejects several statements in one Exec.
func splitStatements(script string) []string {
	var statements []string
	for _, part := range strings.Split(script, ";") {
		stmt := strings.TrimSpace(part)
		if stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func runOracleMigrations(ctx context.Context, db *sql.DB, direction Direction) error {
	appLogger := logger.Get()

	var exists int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`).Scan(&exists); err != nil {
		return fmt.Errorf("could not inspect schema_migrations: %w", err)
	}
	if exists == 0 {
		if _, err := db.ExecContext(ctx, `CREATE TABLE schema_migrations (version NUMBER(10) PRIMARY KEY)`); err != nil {
			return fmt.Errorf("could not create schema_migrations: %w", err)
		}
	}

	var current int
	if err := db.QueryRowContext(ctx, `SELECT NVL(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("could not read migration version: %w", err)
	}

	files, err := listMigrations(migrations.FS, config.DriverOracle, direction)
	if err != nil {
		return err
	}

	for _, file := range files {
		if direction == Up && file.Version <= current {
			continue
		}
		if direction == Down && file.Version > current {
			continue
		}

		content, err := fs.ReadFile(migrations.FS, config.DriverOracle+"/"+file.Name)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file.Name, err)
		}
		for _, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", file.Name, err)
			}
		}

		if direction == Up {
			_, err = db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (:1)`, file.Version)
		} else {
			_, err = db.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = :1`, file.Version)
		}
		if err != nil {
			return fmt.Errorf("could not record migration %s: %w", file.Name, err)
		}
		appLogger.Info("Executed migration", zap.String("file", file.Name))
	}

	appLogger.Info("Migrations completed", zap.String("driver", config.DriverOracle), zap.String("direction", string(direction)))
	return nil
}

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quiz-admin/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
	_ "github.com/lib/pq"          // PostgreSQL driver
	_ "github.com/sijms/go-ora/v2" // Oracle driver
)

func init() {
	// go-ora takes :name placeholders; sqlx does not know the driver name by default.
	sqlx.BindDriver(config.DriverOracle, sqlx.NAMED)
}

// NewSQLXDB connects to the database described by cfg and verifies the connection.
func NewSQLXDB(cfg *config.Config) (*sqlx.DB, error) {
	driver := cfg.DB.Driver
	if driver != config.DriverPostgres && driver != config.DriverOracle {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	ConfigureMapper(db)

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return db, nil
}

// ConfigureMapper matches the upper-case db tags on row models against the column names each driver reports.
// Oracle returns upper-case names, which the default mapper already handles.
func ConfigureMapper(db *sqlx.DB) {
	if db.DriverName() == config.DriverPostgres {
		db.Mapper = reflectx.NewMapperTagFunc("db", strings.ToLower, strings.ToLower)
	}
}

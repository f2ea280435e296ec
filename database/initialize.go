package database

import (
	"context"
	"fmt"

	"blog-service/config"
	"blog-service/database/migrations"
	"blog-service/logging"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/umakantv/go-utils/db"
	"go.uber.org/zap"
)

// InitializeDatabase opens the configured database and applies the schema
// migrations.
func InitializeDatabase(ctx context.Context, cfg *config.Config, log logging.Logger) (*sqlx.DB, error) {
	dbConn, err := Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, dbConn); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("error while running migration: %w", err)
	}

	log.Info("Database initialized successfully", zap.String("driver", cfg.DBDriver))
	return dbConn, nil
}

// Open connects to the database for driver.
func Open(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	switch driver {
	case config.DriverSQLite:
		dbConn, err := openSQLite(url)
		if err != nil {
			return nil, err
		}
		// SQLite allows one writer; serialize through a single connection.
		dbConn.SetMaxOpenConns(1)
		if err := dbConn.PingContext(ctx); err != nil {
			dbConn.Close()
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return dbConn, nil

	case config.DriverPostgres:
		dbConn, err := sqlx.ConnectContext(ctx, "pgx", url)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return dbConn, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// openSQLite turns a connection panic from go-utils into an error.
func openSQLite(url string) (dbConn *sqlx.DB, err error) {
	defer func() {
		if v := recover(); v != nil {
			dbConn = nil
			err = fmt.Errorf("sqlite: %v", v)
		}
	}()

	dbConn = db.GetDBConnection(db.DatabaseConfig{
		DRIVER: "sqlite3",
		DB:     url,
	})
	return dbConn, nil
}

// Migrate applies all pending embedded migrations.
func Migrate(ctx context.Context, dbConn *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect(dbConn.DriverName())); err != nil {
		return err
	}
	return goose.UpContext(ctx, dbConn.DB, ".")
}

func dialect(driverName string) string {
	if driverName == "pgx" {
		return "postgres"
	}
	return driverName
}

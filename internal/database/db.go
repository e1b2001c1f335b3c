package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"installations-bknd/internal/config"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

const connectTimeout = 15 * time.Second

// sessionParams are applied by the driver to every new pooled connection.
// Tables are schema-qualified (app.*), so search_path is left alone.
func sessionParams(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"statement_timeout":                   fmt.Sprintf("%dms", cfg.DBQueryTimeout.Milliseconds()),
		"idle_in_transaction_session_timeout": fmt.Sprintf("%dms", (2 * cfg.DBQueryTimeout).Milliseconds()),
	}
}

func connector(dsn string, cfg *config.Config) *pgdriver.Connector {
	return pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithApplicationName("installations-bknd"),
		pgdriver.WithDialTimeout(connectTimeout),
		// Reads may wait for a statement up to its server-side timeout.
		pgdriver.WithReadTimeout(cfg.DBQueryTimeout+5*time.Second),
		pgdriver.WithWriteTimeout(cfg.DBQueryTimeout),
		pgdriver.WithConnParams(sessionParams(cfg)),
	)
}

// New connects to Postgres, checks that PostGIS is installed and returns a
// Bun DB handle.
func New(dsn string, cfg *config.Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(connector(dsn, cfg))
	db := bun.NewDB(sqldb, pgdialect.New())

	sqldb.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	sqldb.SetConnMaxIdleTime(2 * cfg.DBConnMaxLifetime)

	// Optional query logging
	if cfg.BunDebug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*connectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Spatial queries need PostGIS
	var postgis string
	if err := db.QueryRowContext(ctx, "SELECT postgis_version()").Scan(&postgis); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgis is not available: %w", err)
	}

	return db, nil
}

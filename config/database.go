package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to the database selected by DB_DRIVER (mysql, postgres or
// sqlite).
func OpenDB(s Settings) (*gorm.DB, error) {
	dialector, err := dialectorFor(s)
	if err != nil {
		return nil, err
	}

	// In production and in quiet tools only warnings are logged unless DEBUG_SQL=true.
	logLevel := logger.Info
	if (s.IsProduction() || s.QuietSQL) && !s.DebugSQL {
		logLevel = logger.Warn
	}

	config := &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold: 1500 * time.Millisecond,
				LogLevel:      logLevel,

				IgnoreRecordNotFoundError: true,
			},
		),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if DriverName(s) == "sqlite" {
		// One connection: SQLite has a single writer, and an in-memory
		// database lives only as long as its connection.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Printf("Database connected successfully (driver=%s)", DriverName(s))
	return db, nil
}

// DriverName is the normalised DB_DRIVER value.
func DriverName(s Settings) string {
	d := strings.ToLower(strings.TrimSpace(s.DBDriver))
	if d == "" {
		return "mysql"
	}
	return d
}

func dialectorFor(s Settings) (gorm.Dialector, error) {
	switch DriverName(s) {
	case "mysql":
		return mysql.Open(s.MySQLDSN()), nil
	case "postgres", "postgresql":
		sqlDB, err := openPostgres(s.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return postgres.New(postgres.Config{Conn: sqlDB}), nil
	case "sqlite":
		dsn := s.DatabaseURL
		if dsn == "" {
			dsn = "postulate.db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}
}

// openPostgres builds a pgx-backed *sql.DB. Dials are forced onto IPv4 since
// some hosts publish IPv6 records without a route.
func openPostgres(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	cfg.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
		return d.DialContext(ctx, "tcp4", addr)
	}
	return stdlib.OpenDB(*cfg), nil
}

package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"etf-dashboard/config"
	"etf-dashboard/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB is a wrapper around the gorm.DB client.
type DB struct {
	*gorm.DB
	log *logger.Logger
}

// PostgresDSN builds the key/value DSN understood by the pgx driver.
func PostgresDSN(cfg config.Database) string {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode)
	if cfg.TimeZone != "" {
		dsn += fmt.Sprintf(" TimeZone=%s", cfg.TimeZone)
	}
	return dsn
}

// MigrationURL builds the URL form golang-migrate expects for postgres.
func MigrationURL(cfg config.Database) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "Silent":
		return gormlogger.Silent
	case "Error":
		return gormlogger.Error
	case "Warn":
		return gormlogger.Warn
	case "Info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return postgres.Open(PostgresDSN(cfg)), nil
	case DriverSQLite, "":
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		return sqlite.Open(cfg.Path + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewDB opens a GORM connection for the configured driver.
func NewDB(cfg config.Database, log *logger.Logger) (*DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	}

	db, err := gorm.Open(dial, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database using GORM: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	if cfg.Driver != DriverPostgres {
		// sqlite serializes writers; one connection also keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
	}
	if cfg.ConnMaxLifetime != "" {
		duration, err := time.ParseDuration(cfg.ConnMaxLifetime)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("invalid connection max lifetime format '%s': %w", cfg.ConnMaxLifetime, err)
		}
		sqlDB.SetConnMaxLifetime(duration)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return &DB{DB: db, log: log}, nil
}

// NewSQLiteMemory opens a private in-memory database. Used by tests and
// one-off CLI runs.
func NewSQLiteMemory(log *logger.Logger) (*DB, error) {
	return NewDB(config.Database{Driver: DriverSQLite, Path: ":memory:", LogLevel: "Silent"}, log)
}

// Close closes the underlying *sql.DB connection pool.
func (d *DB) Close() error {
	if d.DB != nil {
		sqlDB, err := d.DB.DB()
		d.log.Info("Closing database connection")
		if err != nil {
			return fmt.Errorf("failed to get underlying sql.DB from GORM for closing: %w", err)
		}
		return sqlDB.Close()
	}
	return nil
}

// Package database provides PostgreSQL connection management with lifecycle
// coordination and an ORM session factory over the shared pool.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JaimeStill/masteryhub/pkg/lifecycle"
)

// ErrNotReady wraps the ping failure that keeps the service from becoming ready.
var ErrNotReady = errors.New("database not ready")

// System manages the connection pool and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// ORM returns the gorm handle bound to the pool. Callers derive a
	// request-scoped session with WithContext.
	ORM() *gorm.DB
	// Probe acquires a dedicated connection, runs a trivial query, and
	// counts the rows in table.
	Probe(ctx context.Context, table string) (int64, error)
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	orm         *gorm.DB
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system with the given configuration.
// It validates the DSN and configures pool parameters, but does not
// establish a connection until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	logger = logger.With("system", "database")

	orm, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{
			Logger:               NewORMLogger(logger, cfg.LogLevel),
			DisableAutomaticPing: true,
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open orm: %w", err)
	}

	return &database{
		conn:        db,
		orm:         orm,
		logger:      logger,
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

// NewORMLogger routes gorm's SQL logging through slog at the given level
// (silent, error, warn, info).
func NewORMLogger(logger *slog.Logger, level string) gormlogger.Interface {
	return gormlogger.New(
		slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  ormLogLevel(level),
			IgnoreRecordNotFoundError: true,
		},
	)
}

func ormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) ORM() *gorm.DB {
	return d.orm
}

func (d *database) Probe(ctx context.Context, table string) (int64, error) {
	conn, err := d.conn.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var one int
	if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return 0, fmt.Errorf("select 1: %w", err)
	}

	var count int64
	q := "SELECT COUNT(*) FROM " + pgx.Identifier{table}.Sanitize()
	if err := conn.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	return count, nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	lc.OnStartup(func() error {
		pingCtx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		if err := d.conn.PingContext(pingCtx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return fmt.Errorf("%w: %v", ErrNotReady, err)
		}

		d.logger.Info("database connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}

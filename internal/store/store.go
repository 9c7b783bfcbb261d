// Package store is the read-only relational store behind the HR tools. It
// hides the two supported SQL dialects (MySQL and SQLite) behind one type.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/HexSleeves/hrchat/internal/config"
)

type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// Store wraps the process-wide connection pool. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// Open creates the pool for cfg and verifies it with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	dialect := Dialect(cfg.Driver)
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case MySQL:
		db, err = sql.Open("mysql", MySQLDSN(cfg))
	case SQLite:
		db, err = sql.Open("sqlite", sqliteDSN(cfg.Path, true))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

// New wraps an already-open pool.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// MySQLDSN builds the go-sql-driver DSN. Dates are parsed into time.Time.
func MySQLDSN(cfg config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Timeout = 5 * time.Second
	return mc.FormatDSN()
}

func sqliteDSN(path string, readOnly bool) string {
	mode := "rwc"
	if readOnly {
		mode = "ro"
	}
	return fmt.Sprintf("file:%s?mode=%s&_pragma=busy_timeout(5000)", path, mode)
}

func (s *Store) Dialect() Dialect { return s.dialect }

// DB exposes the pool for callers that need raw access (seeding, tests).
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

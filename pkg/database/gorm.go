package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.HasPrefix(dsn, "host=")
}

// NewGormDBFromDSN opens Postgres for URL/keyword DSNs and treats anything else
// as a SQLite file path.
func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("open database: empty connection string")
	}

	var dialector gorm.Dialector
	if isPostgresDSN(dsn) {
		dialector = postgres.Open(dsn)
	} else {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("open database: create parent dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: getLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if isPostgresDSN(dsn) {
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetMaxOpenConns(4)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		// SQLite handles one writer; Conn serializes on top of this.
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Conn owns the note database handle and the lock that serializes every
// statement executed through it.
type Conn struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewConn(db *gorm.DB) *Conn {
	return &Conn{db: db}
}

// Open is NewGormDBFromDSN wrapped in a Conn.
func Open(dsn string) (*Conn, error) {
	db, err := NewGormDBFromDSN(dsn)
	if err != nil {
		return nil, err
	}
	return NewConn(db), nil
}

// Do runs fn while holding the connection lock. The lock is released on
// every exit path, including a panic inside fn.
func (c *Conn) Do(ctx context.Context, fn func(db *gorm.DB) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.db.WithContext(ctx))
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

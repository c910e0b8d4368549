package database

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Bagus-DevLab/chatbot-smartgarden/models"
)

var (
	db     *gorm.DB
	dbErr  error
	dbOnce sync.Once
)

// Init opens the quota database once per process and migrates its schema.
// postgres:// URLs open PostgreSQL, "memory" opens a shared in-memory SQLite
// database that loses every record on restart, anything else is a SQLite
// file path.
// Later calls return the connection (or error) of the first call.
func Init(dsn string) (*gorm.DB, error) {
	dbOnce.Do(func() {
		db, dbErr = Open(dsn)
	})
	return db, dbErr
}

// Open creates a new, unshared connection. Tests use it directly.
func Open(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // gorm logger.Default threshold
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLogger}

	dialector, err := dialectorFor(dsn)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		slog.Error("[Database] failed to connect", "driver", dialector.Name(), "error", err)
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialector.Name(), err)
	}

	if err := conn.AutoMigrate(&models.UserQuota{}); err != nil {
		return nil, fmt.Errorf("failed to migrate quota table: %w", err)
	}

	slog.Info("[Database] connection established", "driver", dialector.Name())
	return conn, nil
}

func dialectorFor(dsn string) (gorm.Dialector, error) {
	switch {
	case dsn == "":
		return nil, errors.New("database dsn is empty")
	case dsn == "memory":
		slog.Warn("[Database] using in-memory SQLite database, quota records are lost on restart")
		return sqlite.Open("file::memory:?cache=shared"), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.Open(dsn), nil
	default:
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "/" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory %q: %w", dir, err)
			}
		}
		slog.Info("[Database] using SQLite file", "path", dsn)
		return sqlite.Open(dsn), nil
	}
}

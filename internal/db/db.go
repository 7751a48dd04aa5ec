package db

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/MyelinBots/statbot-go/config"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the shared gorm handle. Every repository and service receives the
// same *DB so they share one connection pool.
type DB struct {
	DB *gorm.DB
}

func NewDatabase(cfg config.DBConfig) (*DB, error) {
	return Open(postgres.Open(cfg.DSN()), cfg.LogLevel)
}

// Open connects through any gorm dialector. Duplicate-key errors are
// translated to gorm.ErrDuplicatedKey so callers never match driver codes.
func Open(dialector gorm.Dialector, logLevel string) (*DB, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  parseLogLevel(logLevel),
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return &DB{DB: gormDB}, nil
}

func (d *DB) Dialect() string {
	return d.DB.Dialector.Name()
}

func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *DB) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

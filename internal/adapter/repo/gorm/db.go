package gormrepo

import (
	"fmt"
	"time"

	"worldharvest/internal/pkg/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxOpenConns    = 16
	maxIdleConns    = 4
	connMaxLifetime = 30 * time.Minute
	slowQuery       = 200 * time.Millisecond
)

// OpenPostgres connects with error translation on, so a duplicate node id is
// reported as gorm.ErrDuplicatedKey and mapped to ports.ErrConflict. Slow
// queries and driver errors go to l.
func OpenPostgres(dsn string, l log.Logger) (*gorm.DB, error) {
	if l == nil {
		l = log.Nop()
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger: logger.New(gormWriter{l.WithName("gorm")}, logger.Config{
			SlowThreshold:             slowQuery,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	return db, nil
}

// gormWriter adapts log.Logger to gorm's printf-style logger.Writer.
type gormWriter struct {
	l log.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.l.Warn(fmt.Sprintf(format, args...))
}

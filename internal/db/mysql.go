package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the connection pool and GORM logging.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// NewMySQL returns a connected GORM DB instance.
func NewMySQL(dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), NewGormConfig(opts.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// NewGormConfig builds the GORM config shared by every dialect.
// Timestamps are stored in UTC so range filters compare consistently, and
// unique violations surface as gorm.ErrDuplicatedKey.
func NewGormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(ParseLogLevel(logLevel)),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

// ParseLogLevel maps silent/error/warn/info to a GORM log level; default is warn.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// TxOptions maps an isolation name to transaction options.
// Empty means the driver default and returns nil.
func TxOptions(isolation string) (*sql.TxOptions, error) {
	switch strings.ToLower(strings.TrimSpace(isolation)) {
	case "", "default":
		return nil, nil
	case "read_committed":
		return &sql.TxOptions{Isolation: sql.LevelReadCommitted}, nil
	case "repeatable_read":
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead}, nil
	case "serializable":
		return &sql.TxOptions{Isolation: sql.LevelSerializable}, nil
	default:
		return nil, fmt.Errorf("unknown transaction isolation %q", isolation)
	}
}

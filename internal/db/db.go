package db

import (
	"database/sql"
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/tgienger/taskflow/internal/errs"
)

//go:embed schema.sql
var schema string

// DefaultWIPLimit is the number of tasks a project may hold in DOING
const DefaultWIPLimit = 3

// Options configures Open
type Options struct {
	Path     string
	WIPLimit int              // 0 means DefaultWIPLimit
	Logger   *zerolog.Logger  // nil disables logging
	Now      func() time.Time // clock for created_at, defaults to time.Now
}

// DB wraps the database connection
type DB struct {
	*sql.DB
	wipLimit int
	log      zerolog.Logger
	now      func() time.Time
}

// Open creates the database file if needed and initializes the schema
func Open(opts Options) (*DB, error) {
	if opts.Path == "" {
		return nil, errs.Validation("Open", "path", "database path is empty")
	}
	if opts.WIPLimit == 0 {
		opts.WIPLimit = DefaultWIPLimit
	}
	if opts.WIPLimit < 0 {
		return nil, errs.Validation("Open", "wip_limit", "must be at least 1")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, errs.Storage("Open", err)
	}

	// immediate transactions take the write lock on BEGIN so MoveTask's
	// count and update cannot interleave with another writer
	sqlDB, err := sql.Open("sqlite3", opts.Path+"?_foreign_keys=on&_txlock=immediate&_busy_timeout=5000")
	if err != nil {
		return nil, errs.Storage("Open", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		sqlDB.Close()
		return nil, errs.Storage("Open", err)
	}

	logger.Debug().Str("path", opts.Path).Int("wip_limit", opts.WIPLimit).Msg("database ready")

	return &DB{
		DB:       sqlDB,
		wipLimit: opts.WIPLimit,
		log:      logger,
		now:      opts.Now,
	}, nil
}

// WIPLimit returns the DOING cap enforced by MoveTask
func (db *DB) WIPLimit() int {
	return db.wipLimit
}

// timestamp is the current time as stored in created_at columns
func (db *DB) timestamp() time.Time {
	return db.now().UTC().Truncate(time.Second)
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", errs.Storage("GetSetting", err)
	}
	return value, nil
}

// SetSetting sets a setting value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return errs.Storage("SetSetting", err)
	}
	return nil
}

// wrapErr converts driver errors into the errs taxonomy
func wrapErr(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return &errs.Error{Kind: errs.ErrConflict, Op: op, Details: "a project with that name already exists", Cause: err}
		case sqlite3.ErrConstraintForeignKey:
			return &errs.Error{Kind: errs.ErrNotFound, Op: op, Details: "project", Cause: err}
		}
	}
	return errs.Storage(op, err)
}

// Package cache implements the disk-backed HTTP response cache. Entries are
// rows of (key, expires_at, body) in a single SQLite file; expired rows are
// deleted lazily on the read that finds them. The cache is an optimization
// only: every storage failure degrades to a miss (reads) or a no-op (writes)
// and is reported nowhere but the log.
package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pbarros/chessclub/internal/platform/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	key        TEXT PRIMARY KEY,
	expires_at INTEGER NOT NULL,
	body       BLOB NOT NULL
);
`

// Stats summarises the store contents at a point in time.
type Stats struct {
	Total     int
	Active    int
	Expired   int
	SizeBytes int64
}

// Store is a SQLite-backed key/value cache with per-entry TTL. The zero
// value is not usable; construct with NewStore. The database is opened on
// first use and never torn down explicitly.
type Store struct {
	path   string
	logger *logging.Logger

	openOnce sync.Once
	db       *sqlx.DB
	now      func() time.Time
}

// NewStore returns a store persisting to path. Construction never fails;
// an unopenable database simply turns every operation into a no-op.
func NewStore(path string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Store) open() *sqlx.DB {
	s.openOnce.Do(func() {
		if s.path == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			s.logger.Warn("cache directory unavailable, caching disabled", "path", s.path, "error", err)
			return
		}
		db, err := otelsqlx.Connect("sqlite3", s.path+"?_busy_timeout=5000&_journal_mode=WAL")
		if err != nil {
			s.logger.Warn("cache database unavailable, caching disabled", "path", s.path, "error", err)
			return
		}
		if _, err := db.Exec(schema); err != nil {
			s.logger.Warn("cache schema init failed, caching disabled", "path", s.path, "error", err)
			_ = db.Close()
			return
		}
		s.db = db
	})
	return s.db
}

// Get returns the cached body for key, or a miss. An entry past its expiry
// is deleted and reported as a miss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	db := s.open()
	if db == nil {
		return nil, false
	}

	var row struct {
		ExpiresAt int64  `db:"expires_at"`
		Body      []byte `db:"body"`
	}
	err := db.GetContext(ctx, &row, `SELECT expires_at, body FROM responses WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.logger.WarnContext(ctx, "cache read failed", "error", err)
		return nil, false
	}

	if s.now().Unix() > row.ExpiresAt {
		if _, err := db.ExecContext(ctx, `DELETE FROM responses WHERE key = ?`, key); err != nil {
			s.logger.WarnContext(ctx, "cache expiry delete failed", "error", err)
		}
		return nil, false
	}

	return row.Body, true
}

// Set stores body under key for ttl. Callers must only pass bodies of
// successful responses; the TTL itself is the caller's policy decision.
func (s *Store) Set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	if key == "" || ttl <= 0 {
		return
	}
	db := s.open()
	if db == nil {
		return
	}

	expiresAt := s.now().Add(ttl).Unix()
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO responses (key, expires_at, body) VALUES (?, ?, ?)`,
		key, expiresAt, body,
	)
	if err != nil {
		s.logger.WarnContext(ctx, "cache write failed", "error", err)
	}
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int, error) {
	db := s.open()
	if db == nil {
		return 0, nil
	}
	res, err := db.ExecContext(ctx, `DELETE FROM responses`)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// PurgeExpired removes every entry past its expiry and returns the count.
// This is the only eager sweep; normal operation relies on lazy expiry.
func (s *Store) PurgeExpired(ctx context.Context) (int, error) {
	db := s.open()
	if db == nil {
		return 0, nil
	}
	res, err := db.ExecContext(ctx, `DELETE FROM responses WHERE expires_at < ?`, s.now().Unix())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Stats reports entry counts and the stored body size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	db := s.open()
	if db == nil {
		return Stats{}, nil
	}

	var row struct {
		Total     int   `db:"total"`
		Active    int   `db:"active"`
		SizeBytes int64 `db:"size_bytes"`
	}
	err := db.GetContext(ctx, &row, `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN expires_at >= ? THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(LENGTH(body)), 0) AS size_bytes
		FROM responses`, s.now().Unix())
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Total:     row.Total,
		Active:    row.Active,
		Expired:   row.Total - row.Active,
		SizeBytes: row.SizeBytes,
	}, nil
}

// Close releases the underlying database, if it was ever opened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

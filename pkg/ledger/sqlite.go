package ledger

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/umputun/redhook/pkg/domain"
)

//go:embed schema.sql
var schemaFS embed.FS

// insertChunk keeps multi-row inserts below sqlite's bound variables limit
const insertChunk = 500

// SQLiteStore keeps the sent record in the sent_posts table
type SQLiteStore struct {
	db        *sqlx.DB
	retention time.Duration
	now       func() time.Time
}

type sentSQL struct {
	PostID string `db:"post_id"`
	SentAt string `db:"sent_at"`
}

// NewSQLiteStore opens the database and makes sure the schema exists
func NewSQLiteStore(ctx context.Context, p Params) (*SQLiteStore, error) {
	p = p.withDefaults()
	if p.DSN == "" {
		p.DSN = "file:redhook.db?cache=shared&mode=rwc&_txlock=immediate"
	}

	db, err := sqlx.Open("sqlite", p.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if p.MaxConns > 0 {
		db.SetMaxOpenConns(p.MaxConns)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("execute schema: %w", err)
	}

	return &SQLiteStore{db: db, retention: p.Retention, now: p.Now}, nil
}

// Load reads all sent posts and drops expired ones. Read errors degrade to an empty record.
func (s *SQLiteStore) Load(ctx context.Context) domain.SentRecord {
	query, args, err := sq.Select("post_id", "sent_at").From("sent_posts").ToSql()
	if err != nil {
		return loadFailed(fmt.Errorf("build select: %w", err))
	}

	var rows []sentSQL
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return loadFailed(fmt.Errorf("select sent posts: %w", err))
	}

	rec := make(domain.SentRecord, len(rows))
	for _, r := range rows {
		ts, err := parseTimestamp(r.SentAt)
		if err != nil {
			lgr.Printf("[WARN] skip sent post %s with bad timestamp %q", r.PostID, r.SentAt)
			continue
		}
		rec[r.PostID] = ts
	}
	return expire(rec, s.now(), s.retention)
}

// Save replaces the stored record with rec in a single transaction.
// Lock errors are retried with backoff, anything else fails right away.
func (s *SQLiteStore) Save(ctx context.Context, rec domain.SentRecord) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var critical error
	err := retrier.Do(ctx, func() error {
		err := s.replace(ctx, rec)
		if err != nil && !isLockError(err) {
			critical = err
			return nil // stop retrying
		}
		return err
	})
	if critical != nil {
		return fmt.Errorf("save sent posts: %w", critical)
	}
	if err != nil {
		return fmt.Errorf("save sent posts: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) replace(ctx context.Context, rec domain.SentRecord) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query, args, err := sq.Delete("sent_posts").ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear sent posts: %w", err)
	}

	ids := make([]string, 0, len(rec))
	for id := range rec {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for start := 0; start < len(ids); start += insertChunk {
		end := min(start+insertChunk, len(ids))
		insert := sq.Insert("sent_posts").Columns("post_id", "sent_at")
		for _, id := range ids[start:end] {
			insert = insert.Values(id, formatTimestamp(rec[id]))
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert sent posts: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

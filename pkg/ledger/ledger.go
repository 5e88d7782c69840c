// Package ledger persists the record of relayed feed items. The record is loaded fresh and saved once
// per relay run; entries older than the retention window are dropped on every load, so the store
// never grows beyond roughly one retention window of traffic.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/redhook/pkg/domain"
	"github.com/umputun/redhook/pkg/metrics"
)

// DefaultRetention is how long a sent item stays ineligible for relay
const DefaultRetention = 7 * 24 * time.Hour

// supported store types
const (
	TypeSQLite = "sqlite"
	TypeJSON   = "json"
)

// Store is a persisted sent record
type Store interface {
	Load(ctx context.Context) domain.SentRecord
	Save(ctx context.Context, rec domain.SentRecord) error
	Close() error
}

// Params configures a ledger store
type Params struct {
	Type      string           // sqlite or json
	DSN       string           // sqlite data source, used for TypeSQLite
	MaxConns  int              // sqlite open connections limit, unlimited if zero
	Path      string           // file path, used for TypeJSON
	Retention time.Duration    // defaults to DefaultRetention
	Now       func() time.Time // defaults to time.Now
}

// Open creates a store of the requested type
func Open(ctx context.Context, p Params) (Store, error) {
	switch p.Type {
	case TypeSQLite, "":
		return NewSQLiteStore(ctx, p)
	case TypeJSON:
		return NewFileStore(p), nil
	default:
		return nil, fmt.Errorf("unknown ledger type %q", p.Type)
	}
}

func (p Params) withDefaults() Params {
	if p.Retention <= 0 {
		p.Retention = DefaultRetention
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p
}

// expire drops entries outside the retention window, must run before the record is used for dedup
func expire(rec domain.SentRecord, now time.Time, retention time.Duration) domain.SentRecord {
	if n := rec.Prune(now, retention); n > 0 {
		lgr.Printf("[DEBUG] expired %d sent posts older than %v", n, retention)
	}
	return rec
}

// loadFailed logs a degraded load; the caller proceeds with an empty record
func loadFailed(err error) domain.SentRecord {
	lgr.Printf("[WARN] error loading sent posts, starting with empty ledger: %v", err)
	metrics.LedgerErrors.WithLabelValues("load").Inc()
	return domain.SentRecord{}
}

package uploads

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
)

// Janitor periodically purges old uploads. It shares nothing with request handling
// except the upload directory.
type Janitor struct {
	store    *Store
	interval time.Duration
	now      func() time.Time
}

// NewJanitor makes a janitor cleaning store every interval, defaults to 24h
func NewJanitor(store *Store, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Janitor{store: store, interval: interval, now: time.Now}
}

// Run cleans up immediately and then on every tick, until ctx is canceled
func (j *Janitor) Run(ctx context.Context) error {
	lgr.Printf("[INFO] upload janitor started for %s, interval %v", j.store.Dir(), j.interval)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()
	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[INFO] upload janitor stopped")
			return nil
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *Janitor) cleanup() {
	removed, err := j.store.Cleanup(j.now())
	if err != nil {
		lgr.Printf("[ERROR] upload cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		lgr.Printf("[INFO] removed %d old uploads", removed)
	}
}

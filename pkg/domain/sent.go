package domain

import "time"

// SentRecord maps item id to the time it was last relayed.
// Every key present was relayed successfully; a missing key means never sent or expired.
type SentRecord map[string]time.Time

// Record marks the item as sent at the given time
func (r SentRecord) Record(id string, now time.Time) {
	r[id] = now
}

// Has reports whether the item is recorded
func (r SentRecord) Has(id string) bool {
	_, ok := r[id]
	return ok
}

// Prune removes entries older than retention relative to now and returns the number removed
func (r SentRecord) Prune(now time.Time, retention time.Duration) int {
	removed := 0
	for id, ts := range r {
		if now.Sub(ts) >= retention {
			delete(r, id)
			removed++
		}
	}
	return removed
}

package feed

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/redhook/pkg/domain"
)

// DefaultMaxPages bounds how deep into a listing a single fetch goes
const DefaultMaxPages = 10

// Source provides pages of a subreddit hot listing in ranking order.
// Every fetch starts over from the first page, no cursor is kept between fetches.
type Source interface {
	HotPage(ctx context.Context, subreddit, after string, limit int) (Page, error)
}

// Page is one page of a ranked listing
type Page struct {
	Items []domain.FeedItem
	After string // cursor of the next page, empty when the listing is exhausted
}

// Fetcher collects batches of eligible items from a source
type Fetcher struct {
	source   Source
	maxPages int
}

// NewFetcher makes a fetcher reading at most maxPages pages per batch
func NewFetcher(source Source, maxPages int) *Fetcher {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Fetcher{source: source, maxPages: maxPages}
}

// FetchBatch walks the hot listing in ranking order and returns up to count items that are not pinned,
// not in sent and not repeated across pages. It stops as soon as count items are collected or the
// listing is exhausted. sent is not modified.
func (f *Fetcher) FetchBatch(ctx context.Context, subreddit string, count int, sent domain.SentRecord) ([]domain.FeedItem, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", domain.ErrInvalidArgument, count)
	}

	res := make([]domain.FeedItem, 0, count)
	seen := make(map[string]bool, count)
	limit := pageSize(count)
	after := ""
	scanned := 0

	for page := 0; page < f.maxPages; page++ {
		p, err := f.source.HotPage(ctx, subreddit, after, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch hot page for r/%s: %w", subreddit, err)
		}
		scanned += len(p.Items)

		for _, item := range p.Items {
			if item.Pinned || sent.Has(item.ID) || seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			res = append(res, item)
			if len(res) == count {
				lgr.Printf("[DEBUG] collected %d items from r/%s, scanned %d", len(res), subreddit, scanned)
				return res, nil
			}
		}

		if p.After == "" || p.After == after || len(p.Items) == 0 {
			break
		}
		after = p.After
	}

	lgr.Printf("[DEBUG] r/%s exhausted with %d of %d requested items, scanned %d", subreddit, len(res), count, scanned)
	return res, nil
}

// pageSize asks for more than count to leave room for pinned and already sent posts
func pageSize(count int) int {
	return min(max(count*2, 25), 100)
}

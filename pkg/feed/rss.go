package feed

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/redhook/pkg/domain"
)

// DefaultRSSURL is the public reddit site serving listing feeds without authentication
const DefaultRSSURL = "https://www.reddit.com"

// RSSSource reads the subreddit hot listing from its public feed. The feed carries no pinned flag, no
// video metadata and no paging, so every listing is a single page.
type RSSSource struct {
	client    *http.Client
	baseURL   string
	userAgent string
	policy    *bluemonday.Policy
}

// NewRSSSource makes a feed source for baseURL
func NewRSSSource(baseURL, userAgent string, timeout time.Duration) *RSSSource {
	if baseURL == "" {
		baseURL = DefaultRSSURL
	}
	return &RSSSource{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		policy:    bluemonday.StrictPolicy(),
	}
}

// HotPage fetches and parses the hot feed. Any after cursor yields an empty, final page.
func (s *RSSSource) HotPage(ctx context.Context, subreddit, after string, limit int) (Page, error) {
	if after != "" {
		return Page{}, nil
	}

	feedURL := fmt.Sprintf("%s/r/%s/hot/.rss?limit=%d", s.baseURL, url.PathEscape(subreddit), limit)
	body, err := s.fetch(ctx, feedURL)
	if err != nil {
		return Page{}, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return Page{}, fmt.Errorf("parse feed: %w", err)
	}

	page := Page{Items: make([]domain.FeedItem, 0, len(parsed.Items))}
	for _, entry := range parsed.Items {
		page.Items = append(page.Items, s.toItem(entry))
	}
	return page, nil
}

func (s *RSSSource) toItem(entry *gofeed.Item) domain.FeedItem {
	item := domain.FeedItem{
		ID:    strings.TrimPrefix(entry.GUID, "t3_"),
		Title: entry.Title,
		URL:   entry.Link,
	}
	if item.ID == "" {
		item.ID = entry.Link
	}
	if u, err := url.Parse(entry.Link); err == nil {
		item.Permalink = u.Path
	}

	content := entry.Content
	if content == "" {
		content = entry.Description
	}
	if content == "" {
		return item
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return item
	}

	// link posts point "[link]" at the submitted url, self posts point it back at the comments page
	doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.TrimSpace(a.Text()) != "[link]" {
			return true
		}
		if href, ok := a.Attr("href"); ok && href != "" {
			item.URL = href
		}
		return false
	})

	if md := doc.Find("div.md").First(); md.Length() > 0 {
		if inner, err := md.Html(); err == nil {
			item.SelfText = strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(inner)))
		}
	}
	return item
}

// fetch retrieves the feed body, the caller closes it
func (s *RSSSource) fetch(ctx context.Context, feedURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

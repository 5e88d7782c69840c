package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/umputun/redhook/pkg/domain"
)

// default reddit endpoints
const (
	DefaultRedditAPIURL   = "https://oauth.reddit.com"
	DefaultRedditTokenURL = "https://www.reddit.com/api/v1/access_token"
)

// RedditParams configures RedditClient
type RedditParams struct {
	ClientID          string
	ClientSecret      string
	UserAgent         string
	APIURL            string
	TokenURL          string
	Timeout           time.Duration
	RequestsPerMinute int // reddit allows 100 per minute for oauth clients
	FailureThreshold  int // consecutive failures before the circuit opens
}

// RedditClient reads subreddit listings from the reddit API with an app-only oauth token
type RedditClient struct {
	client  *http.Client
	apiURL  string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[Page]
}

// NewRedditClient makes a client authenticating with client credentials
func NewRedditClient(p RedditParams) *RedditClient {
	if p.APIURL == "" {
		p.APIURL = DefaultRedditAPIURL
	}
	if p.TokenURL == "" {
		p.TokenURL = DefaultRedditTokenURL
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	if p.RequestsPerMinute <= 0 {
		p.RequestsPerMinute = 60
	}
	if p.FailureThreshold <= 0 {
		p.FailureThreshold = 5
	}

	// reddit rejects requests without a descriptive user agent, the token request included
	base := &http.Client{
		Timeout:   p.Timeout,
		Transport: &userAgentTransport{userAgent: p.UserAgent, next: http.DefaultTransport},
	}
	cc := clientcredentials.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		TokenURL:     p.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	client := cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
	client.Timeout = p.Timeout

	threshold := uint32(p.FailureThreshold) //nolint:gosec // positive, checked above
	breaker := gobreaker.NewCircuitBreaker[Page](gobreaker.Settings{
		Name:    "reddit",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lgr.Printf("[WARN] circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return &RedditClient{
		client:  client,
		apiURL:  strings.TrimSuffix(p.APIURL, "/"),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(p.RequestsPerMinute)), 1),
		breaker: breaker,
	}
}

// HotPage returns one page of the subreddit's hot listing
func (c *RedditClient) HotPage(ctx context.Context, subreddit, after string, limit int) (Page, error) {
	return c.breaker.Execute(func() (Page, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return Page{}, fmt.Errorf("wait for rate limiter: %w", err)
		}
		return c.hotPage(ctx, subreddit, after, limit)
	})
}

func (c *RedditClient) hotPage(ctx context.Context, subreddit, after string, limit int) (Page, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}
	listingURL := fmt.Sprintf("%s/r/%s/hot?%s", c.apiURL, url.PathEscape(subreddit), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, http.NoBody)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("get %s: %w", listingURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Page{}, fmt.Errorf("unexpected status code %d for r/%s: %s", resp.StatusCode, subreddit, strings.TrimSpace(string(body)))
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return Page{}, fmt.Errorf("decode listing: %w", err)
	}

	page := Page{After: l.Data.After, Items: make([]domain.FeedItem, 0, len(l.Data.Children))}
	for _, child := range l.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		page.Items = append(page.Items, child.Data.toItem())
	}
	return page, nil
}

type listing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string   `json:"kind"`
			Data postData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
	SelfText  string `json:"selftext"`
	Stickied  bool   `json:"stickied"`
	IsVideo   bool   `json:"is_video"`
	Media     *struct {
		RedditVideo *struct {
			DashURL     string `json:"dash_url"`
			FallbackURL string `json:"fallback_url"`
		} `json:"reddit_video"`
	} `json:"media"`
}

func (d postData) toItem() domain.FeedItem {
	item := domain.FeedItem{
		ID:        d.ID,
		Title:     d.Title,
		Permalink: d.Permalink,
		URL:       d.URL,
		SelfText:  d.SelfText,
		Pinned:    d.Stickied,
		IsVideo:   d.IsVideo,
	}
	if d.Media != nil && d.Media.RedditVideo != nil {
		item.Media = &domain.VideoMedia{DashURL: d.Media.RedditVideo.DashURL, FallbackURL: d.Media.RedditVideo.FallbackURL}
	}
	return item
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

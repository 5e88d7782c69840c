package domain

// FeedItem represents a single post from a ranked feed listing
type FeedItem struct {
	ID        string      // stable per source post, e.g. reddit base36 id
	Title     string
	Permalink string      // path relative to the feed site, e.g. /r/golang/comments/abc/title/
	URL       string      // raw content URL, optional
	SelfText  string      // text body, optional
	Pinned    bool        // stickied by moderators
	IsVideo   bool        // source marks the post as hosting an embedded video
	Media     *VideoMedia // embedded video descriptor, optional
}

// VideoMedia describes embedded video streams of a post
type VideoMedia struct {
	DashURL     string // adaptive stream, preferred
	FallbackURL string // direct download
}

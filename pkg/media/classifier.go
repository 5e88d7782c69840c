// Package media decides how a feed item is represented in an outbound message.
// Classification is a pure function of the item: video first, then image, then a text excerpt.
package media

import (
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/umputun/redhook/pkg/domain"
)

// Kind of representation
type Kind int

// enum of representation kinds
const (
	KindText Kind = iota
	KindVideo
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	default:
		return "text"
	}
}

// MaxTextLen is the outbound description limit in characters
const MaxTextLen = 4096

// truncation keeps this many characters and appends the ellipsis
const (
	truncatedLen = 4090
	ellipsis     = "..."
)

// VideoHost is the feed's own video CDN domain
const VideoHost = "v.redd.it"

var (
	videoExts = []string{".mp4", ".webm", ".mov", ".mkv", ".avi"}
	imageExts = []string{".jpg", ".jpeg", ".png", ".gif"}
)

// Representation of an item in the outbound message. URL is set for video and image, Text for text.
type Representation struct {
	Kind Kind
	URL  string
	Text string
}

// Classify picks the item representation. The source's own video flag is checked before any
// URL pattern, since the two signals can disagree for edge-case URLs.
func Classify(item domain.FeedItem) Representation {
	if u := videoURL(item); u != "" {
		return Representation{Kind: KindVideo, URL: u}
	}
	if hasExt(item.URL, imageExts) {
		return Representation{Kind: KindImage, URL: item.URL}
	}
	return Representation{Kind: KindText, Text: Excerpt(item.SelfText)}
}

// Excerpt truncates text to fit MaxTextLen characters
func Excerpt(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:truncatedLen]) + ellipsis
}

func videoURL(item domain.FeedItem) string {
	if item.IsVideo && item.Media != nil {
		if item.Media.DashURL != "" {
			return item.Media.DashURL
		}
		if item.Media.FallbackURL != "" {
			return item.Media.FallbackURL
		}
	}
	if item.URL == "" {
		return ""
	}
	if hasExt(item.URL, videoExts) {
		return item.URL
	}
	if u, err := url.Parse(item.URL); err == nil && strings.EqualFold(u.Hostname(), VideoHost) {
		return item.URL
	}
	return ""
}

// hasExt checks the extension of the URL path, ignoring case and query string
func hasExt(rawURL string, exts []string) bool {
	if rawURL == "" {
		return false
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

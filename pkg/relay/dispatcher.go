// Package relay turns feed items and uploaded files into webhook messages and coordinates
// feed relays with the sent posts ledger.
package relay

import (
	"context"
	"io"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/redhook/pkg/discord"
	"github.com/umputun/redhook/pkg/domain"
	"github.com/umputun/redhook/pkg/media"
	"github.com/umputun/redhook/pkg/metrics"
	"github.com/umputun/redhook/pkg/uploads"
)

//go:generate moq -out mocks/sink.go -pkg mocks -skip-ensure -fmt goimports . Sink
//go:generate moq -out mocks/upload_store.go -pkg mocks -skip-ensure -fmt goimports . UploadStore

// Sink delivers messages to a webhook
type Sink interface {
	PostEmbeds(ctx context.Context, webhookURL string, embeds ...discord.Embed) error
	PostFile(ctx context.Context, webhookURL, filename string, r io.Reader) error
}

// UploadStore keeps uploaded files while they are relayed
type UploadStore interface {
	Save(name string, r io.Reader) (string, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// Upload is a single file submitted for relay
type Upload struct {
	Name   string
	Reader io.Reader
}

// PostsResult is the outcome of a posts batch with the ids confirmed by the sink
type PostsResult struct {
	Outcome domain.Outcome
	SentIDs []string
}

// emptyFilename is the failed entry reported for files submitted without a name
const emptyFilename = "Empty filename"

var allowedExts = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"mp4": true, "webm": true, "avi": true, "mov": true, "mkv": true,
}

// Dispatcher sends posts and files to the sink, one attempt per entry
type Dispatcher struct {
	sink  Sink
	store UploadStore
}

// NewDispatcher makes a dispatcher
func NewDispatcher(sink Sink, store UploadStore) *Dispatcher {
	return &Dispatcher{sink: sink, store: store}
}

// SendUploads relays every file as a separate attachment message. A failure of one file never stops the
// others, it is reported in the outcome's failed list.
func (d *Dispatcher) SendUploads(ctx context.Context, webhookURL string, files []Upload) domain.Outcome {
	sent := 0
	failed := []string{}
	for _, f := range files {
		if name, ok := d.sendUpload(ctx, webhookURL, f); !ok {
			failed = append(failed, name)
			metrics.UploadsRelayed.WithLabelValues(metrics.ResultFailed).Inc()
			continue
		}
		sent++
		metrics.UploadsRelayed.WithLabelValues(metrics.ResultSent).Inc()
	}
	return domain.UploadsOutcome(sent, len(files), failed)
}

// sendUpload stores and posts a single file under its sanitized name, returning the name to report and
// success flag. The stored copy is removed once the send is done.
func (d *Dispatcher) sendUpload(ctx context.Context, webhookURL string, f Upload) (string, bool) {
	if f.Name == "" {
		return emptyFilename, false
	}
	if !allowedExts[uploads.Ext(f.Name)] {
		lgr.Printf("[DEBUG] rejected upload %q, extension not allowed", f.Name)
		return f.Name, false
	}
	safe := uploads.SecureFilename(f.Name)
	if safe == "" {
		lgr.Printf("[DEBUG] rejected upload %q, nothing left after sanitizing", f.Name)
		return f.Name, false
	}

	path, err := d.store.Save(safe, f.Reader)
	if err != nil {
		lgr.Printf("[WARN] failed to store upload %s: %v", safe, err)
		return safe, false
	}
	defer func() {
		if err := d.store.Remove(path); err != nil {
			lgr.Printf("[WARN] failed to remove relayed upload %s: %v", path, err)
		}
	}()
	rc, err := d.store.Open(path)
	if err != nil {
		lgr.Printf("[WARN] failed to open stored upload %s: %v", safe, err)
		return safe, false
	}
	defer rc.Close()

	if err := d.sink.PostFile(ctx, webhookURL, safe, rc); err != nil {
		lgr.Printf("[WARN] failed to send file %s: %v", safe, err)
		return safe, false
	}
	lgr.Printf("[DEBUG] sent file %s", safe)
	return safe, true
}

// SendPosts relays every item as a single embed message, in the given order. Items are never retried and
// the ledger is not touched, the caller records SentIDs.
func (d *Dispatcher) SendPosts(ctx context.Context, webhookURL string, items []domain.FeedItem) PostsResult {
	sentIDs := make([]string, 0, len(items))
	var failed []string
	for _, item := range items {
		rep := media.Classify(item)
		if err := d.sink.PostEmbeds(ctx, webhookURL, BuildEmbed(item, rep)); err != nil {
			lgr.Printf("[WARN] failed to send %s post %s %q: %v", rep.Kind, item.ID, item.Title, err)
			failed = append(failed, item.Title)
			metrics.PostsRelayed.WithLabelValues(metrics.ResultFailed).Inc()
			continue
		}
		lgr.Printf("[DEBUG] sent %s post %s %q", rep.Kind, item.ID, item.Title)
		sentIDs = append(sentIDs, item.ID)
		metrics.PostsRelayed.WithLabelValues(metrics.ResultSent).Inc()
	}
	return PostsResult{Outcome: domain.PostsOutcome(len(sentIDs), len(items), failed), SentIDs: sentIDs}
}

package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-playground/validator/v10"

	"github.com/umputun/redhook/pkg/discord"
	"github.com/umputun/redhook/pkg/domain"
	"github.com/umputun/redhook/pkg/metrics"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/ledger.go -pkg mocks -skip-ensure -fmt goimports . Ledger

// Fetcher collects eligible feed items not present in sent
type Fetcher interface {
	FetchBatch(ctx context.Context, subreddit string, count int, sent domain.SentRecord) ([]domain.FeedItem, error)
}

// Ledger loads and persists the sent posts record
type Ledger interface {
	Load(ctx context.Context) domain.SentRecord
	Save(ctx context.Context, rec domain.SentRecord) error
}

// ledgerSaveTimeout bounds the ledger save detached from the request context
const ledgerSaveTimeout = 30 * time.Second

// Params configures Service
type Params struct {
	WebhookPrefix string           // accepted beginning of sink urls, discord.DefaultWebhookPrefix if empty
	Now           func() time.Time // clock for ledger records, time.Now if nil
}

// Service validates relay requests and runs them. Feed relays are serialized, the ledger
// load-modify-save cycle is not safe to run concurrently.
type Service struct {
	dispatcher *Dispatcher
	fetcher    Fetcher
	ledger     Ledger
	validate   *validator.Validate
	now        func() time.Time
	mu         sync.Mutex
}

type uploadsRequest struct {
	SinkURL string   `validate:"webhook"`
	Files   []Upload `validate:"min=1"`
}

type feedRequest struct {
	SinkURL   string `validate:"webhook"`
	Subreddit string `validate:"required"`
	Count     int    `validate:"gt=0"`
}

// messages reported for failed request fields
var validationMessages = map[string]string{
	"SinkURL":   "Invalid webhook URL",
	"Files":     "No files were uploaded",
	"Subreddit": "Subreddit name is required",
	"Count":     "Number of posts must be greater than 0",
}

// NewService makes a relay service
func NewService(dispatcher *Dispatcher, fetcher Fetcher, ledger Ledger, p Params) *Service {
	if p.WebhookPrefix == "" {
		p.WebhookPrefix = discord.DefaultWebhookPrefix
	}
	if p.Now == nil {
		p.Now = time.Now
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	prefix := p.WebhookPrefix
	if err := v.RegisterValidation("webhook", func(fl validator.FieldLevel) bool {
		return strings.HasPrefix(fl.Field().String(), prefix)
	}); err != nil {
		panic(fmt.Sprintf("can't register webhook validation: %v", err)) // only fails on empty tag
	}

	return &Service{dispatcher: dispatcher, fetcher: fetcher, ledger: ledger, validate: v, now: p.Now}
}

// RelayUploads sends every file to the sink. Per-file failures are reported in the outcome,
// the error is returned for invalid requests only.
func (s *Service) RelayUploads(ctx context.Context, sinkURL string, files []Upload) (domain.Outcome, error) {
	if err := s.check(uploadsRequest{SinkURL: sinkURL, Files: files}); err != nil {
		return domain.ErrorOutcome(err.Error()), fmt.Errorf("relay uploads: %w", err)
	}

	out := s.dispatcher.SendUploads(ctx, sinkURL, files)
	lgr.Printf("[INFO] %s", out.Message)
	return out, nil
}

// RelayFeedPosts sends up to count not yet relayed posts of the subreddit's hot listing to the sink and
// records the confirmed ones in the ledger. Ledger failures are logged, fetch failures abort the run
// with ErrInternal.
func (s *Service) RelayFeedPosts(ctx context.Context, sinkURL, subreddit string, count int) (out domain.Outcome, err error) {
	if err := s.check(feedRequest{SinkURL: sinkURL, Subreddit: subreddit, Count: count}); err != nil {
		return domain.ErrorOutcome(err.Error()), fmt.Errorf("relay feed posts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			out, err = s.failed(subreddit, fmt.Errorf("panic: %v", r))
		}
	}()

	sent := s.ledger.Load(ctx)
	if sent == nil {
		sent = domain.SentRecord{}
	}
	items, err := s.fetcher.FetchBatch(ctx, subreddit, count, sent)
	if err != nil {
		return s.failed(subreddit, err)
	}

	res := s.dispatcher.SendPosts(ctx, sinkURL, items)
	now := s.now()
	for _, id := range res.SentIDs {
		sent.Record(id, now)
	}
	// confirmed sends are persisted even if the caller is gone
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerSaveTimeout)
	defer cancel()
	if err := s.ledger.Save(saveCtx, sent); err != nil {
		lgr.Printf("[WARN] failed to save sent posts after relay from r/%s: %v", subreddit, err)
		metrics.LedgerErrors.WithLabelValues("save").Inc()
	}

	metrics.RelayRuns.WithLabelValues(string(res.Outcome.Status)).Inc()
	lgr.Printf("[INFO] r/%s relay: %s", subreddit, res.Outcome.Message)
	return res.Outcome, nil
}

func (s *Service) failed(subreddit string, err error) (domain.Outcome, error) {
	lgr.Printf("[ERROR] error fetching posts from subreddit %s: %v", subreddit, err)
	metrics.RelayRuns.WithLabelValues(string(domain.StatusError)).Inc()
	return domain.ErrorOutcome("Error fetching posts from subreddit " + subreddit),
		fmt.Errorf("%w: relay from r/%s: %w", domain.ErrInternal, subreddit, err)
}

// check validates the request and converts the first violation to a validation error
func (s *Service) check(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := validationMessages[verrs[0].StructField()]; ok {
			return domain.NewValidationError(msg)
		}
		return domain.NewValidationError(verrs[0].Error())
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
}

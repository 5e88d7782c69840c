// Package discord implements the webhook sink: JSON embeds and multipart file attachments.
// Each call is a single attempt, there are no retries.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultWebhookPrefix is the only accepted beginning of a webhook URL
const DefaultWebhookPrefix = "https://discord.com/api/webhooks/"

// Embed is a discord message embed
type Embed struct {
	Title       string `json:"title"`
	Color       int    `json:"color"`
	Description string `json:"description"`
	Video       *Media `json:"video,omitempty"`
	Image       *Media `json:"image,omitempty"`
}

// Media is a video or image reference inside an embed
type Media struct {
	URL string `json:"url"`
}

type webhookPayload struct {
	Embeds []Embed `json:"embeds"`
}

// StatusError is returned when the webhook responds with a non-accepted status code
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.Code)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.Code, e.Body)
}

// Client posts messages to discord webhooks
type Client struct {
	client *http.Client
}

// NewClient makes a client with the given timeout applied to every request
func NewClient(timeout time.Duration) *Client {
	return &Client{client: &http.Client{Timeout: timeout}}
}

// PostEmbeds sends embeds as a JSON message. Only 204 No Content is accepted.
func (c *Client) PostEmbeds(ctx context.Context, webhookURL string, embeds ...Embed) error {
	body, err := json.Marshal(webhookPayload{Embeds: embeds})
	if err != nil {
		return fmt.Errorf("marshal embeds: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, http.StatusNoContent)
}

// PostFile sends the content of r as a file attachment named filename. 200 and 204 are accepted.
func (c *Client) PostFile(ctx context.Context, webhookURL, filename string, r io.Reader) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			_ = pw.CloseWithError(fmt.Errorf("create form file: %w", err))
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			_ = pw.CloseWithError(fmt.Errorf("copy file: %w", err))
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, http.StatusOK, http.StatusNoContent)
}

func (c *Client) do(req *http.Request, accepted ...int) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	for _, code := range accepted {
		if resp.StatusCode == code {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

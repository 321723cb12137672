package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fhuszti/assets-ms-go/internal/port"
)

const errorBodyLimit int64 = 1024

// ErrBadResponse is returned when the ML service answers without a tag list.
var ErrBadResponse = errors.New("ml service returned no tag list")

// Client calls the image tagging endpoint of the ML service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// compile-time check
var _ port.Tagger = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

type tagRequest struct {
	ThumbnailPath string `json:"thumbnail_path"`
}

// TagImage posts the thumbnail path and returns the tags the model assigned.
// An empty list is a valid answer.
func (c *Client) TagImage(ctx context.Context, thumbnailPath string) ([]string, error) {
	payload, err := json.Marshal(tagRequest{ThumbnailPath: thumbnailPath})
	if err != nil {
		return nil, fmt.Errorf("marshal tag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tagImage", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call ml service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, fmt.Errorf("ml service status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var tags []string
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	if tags == nil {
		return nil, ErrBadResponse
	}
	return tags, nil
}

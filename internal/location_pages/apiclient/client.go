// Package apiclient reads content collections through the /api routes of a
// running instance.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/helper"
	"location-pages/internal/location_pages/model"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        log,
	}
}

// Fetch implements content.Fetcher. A 404 from the API wraps content.ErrNotFound.
func (c *Client) Fetch(ctx context.Context, collection string) ([]model.ContentRecord, error) {
	u := c.BaseURL + "/api/" + collection
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", u, err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Error("Failed to fetch collection",
			zap.String("url", u),
			zap.Error(err),
		)
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.Log.Warn("Failed to close response body", zap.Error(err))
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("get %s: %w", u, content.ErrNotFound)
	default:
		c.Log.Warn("Collection API returned error status",
			zap.String("url", u),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("get %s: unexpected status %d", u, resp.StatusCode)
	}

	// 响应形如 {"neighborhoods": [...], "currentDate": "...", ...}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s: %w", u, err)
	}
	raw, ok := envelope[collection]
	if !ok {
		return nil, fmt.Errorf("decode %s: missing %q field", u, collection)
	}
	var items []model.ContentRecord
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", u, err)
	}

	out := items[:0]
	for _, it := range items {
		// the API already filtered and sorted; re-parse so PublishedOn works downstream
		if err := it.Normalize(it.Slug, helper.Location()); err != nil {
			c.Log.Warn("Skipping record with invalid publish date", zap.String("slug", it.Slug), zap.Error(err))
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jellywatch/internal/config"
	"jellywatch/internal/media"
)

const (
	defaultPageSize = 200
	maxRetries      = 3
	baseRetryDelay  = 500 * time.Millisecond
)

// Client is a token-authenticated Jellyfin API client.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a Jellyfin client from configuration.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.Jellyfin.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	pageSize := cfg.Jellyfin.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Jellyfin.URL, "/"),
		apiKey:     strings.TrimSpace(cfg.Jellyfin.APIKey),
		pageSize:   pageSize,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "jellyfin")),
	}
}

// FetchLibrary pages through every movie and episode on the server and
// returns the full records the reconciler upserts.
func (c *Client) FetchLibrary(ctx context.Context) ([]media.FullRecord, error) {
	var records []media.FullRecord
	start := 0
	for {
		page, total, err := c.fetchItems(ctx, start)
		if err != nil {
			return nil, err
		}
		for _, item := range page {
			records = append(records, MapItem(item))
		}
		start += len(page)
		if len(page) == 0 || start >= total {
			break
		}
	}
	c.logger.Debug("library snapshot fetched", slog.Int("items", len(records)))
	return records, nil
}

// PrimaryImageURL builds the primary artwork URL for an item.
func PrimaryImageURL(baseURL, itemID string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" || itemID == "" {
		return ""
	}
	return base + "/Items/" + url.PathEscape(itemID) + "/Images/Primary"
}

func (c *Client) fetchItems(ctx context.Context, startIndex int) ([]Item, int, error) {
	query := url.Values{}
	query.Set("Recursive", "true")
	query.Set("IncludeItemTypes", "Movie,Episode")
	query.Set("Fields", "MediaSources,MediaStreams,Path,Overview,Genres,Taglines,ProductionYear")
	query.Set("StartIndex", strconv.Itoa(startIndex))
	query.Set("Limit", strconv.Itoa(c.pageSize))

	body, err := c.doRequest(ctx, http.MethodGet, "/Items", query)
	if err != nil {
		return nil, 0, err
	}

	var resp ItemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("decode items response: %w", err)
	}
	return resp.Items, resp.TotalRecordCount, nil
}

// doRequest performs an authenticated request with retry and exponential
// backoff on 5xx responses.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying request",
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay),
				slog.String("path", path))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Emby-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("jellyfin request: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			c.logger.Warn("jellyfin server error, will retry",
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("jellyfin returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return body, nil
	}
	return nil, fmt.Errorf("jellyfin request failed after %d retries: %w", maxRetries, lastErr)
}

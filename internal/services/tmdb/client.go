package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	findCacheTTL = 5 * time.Minute
)

// ErrProviderUnavailable indicates a transport failure, timeout or
// provider-side (5xx/429) failure. Callers treat it as retryable.
var ErrProviderUnavailable = errors.New("metadata provider unavailable")

// ErrNotFound indicates the provider has no record for the requested id
var ErrNotFound = errors.New("not found at metadata provider")

// Client handles communication with the TMDB API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	findCache  *gocache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(apiKey string, logger *logrus.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		// Redelivered tasks for the same record would otherwise repeat the
		// lookup call; a short-lived cache absorbs the duplicates.
		findCache: gocache.New(findCacheTTL, 10*time.Minute),
		logger:    logger,
	}, nil
}

// FindByImdb looks up a record by IMDB id. The result holds at most one
// movie match or one show match, never both.
func (c *Client) FindByImdb(ctx context.Context, imdbID string) (*FindResult, error) {
	if cached, ok := c.findCache.Get(imdbID); ok {
		return cached.(*FindResult), nil
	}

	var result FindResult
	path := fmt.Sprintf("/find/%s", url.PathEscape(imdbID))
	if err := c.doRequest(ctx, path, url.Values{"external_source": {"imdb_id"}}, &result); err != nil {
		return nil, err
	}

	c.findCache.Set(imdbID, &result, gocache.DefaultExpiration)
	return &result, nil
}

// GetMovie fetches the movie detail record, with release dates and videos
// appended
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetail, error) {
	var detail MovieDetail
	path := fmt.Sprintf("/movie/%d", id)
	params := url.Values{"append_to_response": {"release_dates,videos"}}
	if err := c.doRequest(ctx, path, params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetTV fetches the show detail record, with external ids appended
func (c *Client) GetTV(ctx context.Context, id int) (*TVDetail, error) {
	var detail TVDetail
	path := fmt.Sprintf("/tv/%d", id)
	params := url.Values{"append_to_response": {"external_ids"}}
	if err := c.doRequest(ctx, path, params, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// doRequest performs an authenticated GET against the TMDB API and decodes
// the JSON response into result
func (c *Client) doRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	c.logger.WithField("path", path).Debug("Making TMDB API request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors and timeouts are indistinguishable from a
		// provider outage from this side of the socket.
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrProviderUnavailable, resp.StatusCode, string(bodyBytes))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("TMDB API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

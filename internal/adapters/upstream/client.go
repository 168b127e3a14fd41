// Package upstream fetches player lists from the remote leaderboard endpoint.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/okian/leagueboard/internal/domain/model"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRatePerSec = 5
	defaultUserAgent  = "leagueboard/1.0"
	defaultSeasonKey  = "season"
	errorBodyLimit    = 4 << 10
	maxBodyBytes      = 32 << 20

	// RequestIDHeader carries the per-fetch correlation id.
	RequestIDHeader = "X-Request-ID"
)

// Fetcher returns the full player list for a season.
type Fetcher interface {
	Fetch(ctx context.Context, season model.Season) (Result, error)
}

// Result is a successful fetch.
type Result struct {
	Players   []model.Player
	RequestID string
	FetchedAt time.Time
}

// Client issues exactly one GET per Fetch call. There is no retry.
type Client struct {
	endpoint    string
	seasonParam string
	userAgent   string
	httpClient  *http.Client
	limiter     *rate.Limiter
	now         func() time.Time
}

// New creates a client for endpoint, which must be an absolute http(s) URL.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	c := &Client{
		endpoint:    endpoint,
		seasonParam: defaultSeasonKey,
		userAgent:   defaultUserAgent,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(defaultRatePerSec), 1),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context, season model.Season) (Result, error) {
	requestID := uuid.NewString()

	if err := c.limiter.Wait(ctx); err != nil {
		return Result{RequestID: requestID}, &FetchError{Kind: KindTransport, RequestID: requestID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(season), http.NoBody)
	if err != nil {
		return Result{RequestID: requestID}, &FetchError{Kind: KindTransport, RequestID: requestID, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{RequestID: requestID}, &FetchError{Kind: KindTransport, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return Result{RequestID: requestID}, &FetchError{
			Kind:      KindStatus,
			RequestID: requestID,
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("%w: %d %s", ErrUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(b))),
		}
	}

	var players []model.Player
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	if err := dec.Decode(&players); err != nil {
		return Result{RequestID: requestID}, &FetchError{
			Kind:      KindDecode,
			RequestID: requestID,
			Err:       fmt.Errorf("%w: %w", ErrDecode, err),
		}
	}
	if players == nil {
		// a JSON null body is an empty list
		players = []model.Player{}
	}

	return Result{Players: players, RequestID: requestID, FetchedAt: c.now()}, nil
}

// requestURL appends the season parameter unless it is disabled.
func (c *Client) requestURL(season model.Season) string {
	if c.seasonParam == "" {
		return c.endpoint
	}
	u, _ := url.Parse(c.endpoint) // validated in New
	q := u.Query()
	q.Set(c.seasonParam, string(season))
	u.RawQuery = q.Encode()
	return u.String()
}

// Kind classifies a FetchError.
func Kind(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransport
}

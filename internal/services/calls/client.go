// Package calls provides the Broadcastify Calls fetch client and the
// poll-and-dedupe service built on top of it.
package calls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-reyes/broadcastify-calls-tui/internal/logger"
	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

const (
	// requestTimeout bounds one fetch round trip, including body read.
	requestTimeout = 15 * time.Second

	// DefaultLimit is the result cap sent with every request.
	DefaultLimit = 10
)

// ErrorKind classifies fetch failures.
type ErrorKind int

const (
	// KindTransport covers network-level failures, including timeouts.
	KindTransport ErrorKind = iota
	// KindStatus covers non-2xx HTTP responses.
	KindStatus
	// KindDecode covers bodies that do not parse as the expected structure.
	KindDecode
)

// String returns the string representation of an ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is returned when a fetch cycle fails. A failed fetch aborts the
// current cycle only; the scheduler logs it and waits for the next tick.
type FetchError struct {
	Err    error
	Kind   ErrorKind
	Status int
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("fetch failed (%s, status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch failed (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// latestResponse is the wire shape of GET /latest.
type latestResponse struct {
	Calls []models.Call `json:"calls"`
}

// Client issues authenticated requests against the Broadcastify Calls API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a fetch client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// FetchLatest retrieves the newest call records for the given feeds. It
// returns only validated records; an empty slice is a valid, non-error
// outcome. Individual malformed entries are dropped with a warning and do
// not affect their siblings.
func (c *Client) FetchLatest(ctx context.Context, feedIDs []string, limit int) ([]models.Call, error) {
	if len(feedIDs) == 0 {
		return nil, &FetchError{Kind: KindTransport, Err: errors.New("no feed ids configured")}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	endpoint := c.baseURL + "/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: err}
	}

	q := url.Values{}
	q.Set("feed_ids", strings.Join(feedIDs, ","))
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Kind:   KindStatus,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status from %s: %s", endpoint, strings.TrimSpace(string(body))),
		}
	}

	var decoded latestResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &FetchError{Kind: KindDecode, Err: err}
	}

	// A well-formed body without a calls list means "nothing to report",
	// not a failure.
	if decoded.Calls == nil {
		logger.Warn("response missing calls list", "feeds", strings.Join(feedIDs, ","))
		return nil, nil
	}

	now := time.Now()
	valid := make([]models.Call, 0, len(decoded.Calls))
	for i := range decoded.Calls {
		call := decoded.Calls[i]
		if err := call.Validate(); err != nil {
			logger.Warn("skipping malformed call entry", "call_id", call.CallID, "error", err)
			continue
		}
		call.ReceivedAt = now
		valid = append(valid, call)
	}

	return valid, nil
}

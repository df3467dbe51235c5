package calls

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

// MockRoundTripper allows mocking HTTP responses in tests.
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func newTestClient(transport http.RoundTripper) *Client {
	c := NewClient("https://api.example.com/calls/v1", "test-key")
	c.httpClient.Transport = transport
	return c
}

func jsonResponse(status int, v any) *http.Response {
	body, _ := json.Marshal(v)
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body))}
}

func TestFetchLatestRequestShape(t *testing.T) {
	var captured *http.Request
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonResponse(200, latestResponse{Calls: []models.Call{}}), nil
		},
	})

	_, err := client.FetchLatest(context.Background(), []string{"100", "200"}, 10)
	if err != nil {
		t.Fatalf("FetchLatest() error = %v", err)
	}

	if captured.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", captured.Method)
	}
	if got := captured.URL.Path; !strings.HasSuffix(got, "/latest") {
		t.Errorf("path = %s, want suffix /latest", got)
	}
	if got := captured.Header.Get("Authorization"); got != "Bearer test-key" {
		t.Errorf("Authorization = %q, want %q", got, "Bearer test-key")
	}
	q := captured.URL.Query()
	if got := q.Get("feed_ids"); got != "100,200" {
		t.Errorf("feed_ids = %q, want %q", got, "100,200")
	}
	if got := q.Get("limit"); got != "10" {
		t.Errorf("limit = %q, want %q", got, "10")
	}
}

func TestFetchLatestErrors(t *testing.T) {
	tests := []struct {
		name      string
		transport http.RoundTripper
		feedIDs   []string
		wantKind  ErrorKind
	}{
		{
			name:     "NoFeeds",
			feedIDs:  nil,
			wantKind: KindTransport,
		},
		{
			name:    "NetworkError",
			feedIDs: []string{"100"},
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return nil, errors.New("connection refused")
				},
			},
			wantKind: KindTransport,
		},
		{
			name:    "StatusError",
			feedIDs: []string{"100"},
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 401, Body: io.NopCloser(strings.NewReader("unauthorized"))}, nil
				},
			},
			wantKind: KindStatus,
		},
		{
			name:    "DecodeError",
			feedIDs: []string{"100"},
			transport: &MockRoundTripper{
				RoundTripFunc: func(req *http.Request) (*http.Response, error) {
					return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("not json"))}, nil
				},
			},
			wantKind: KindDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(tt.transport)
			_, err := client.FetchLatest(context.Background(), tt.feedIDs, 10)
			if err == nil {
				t.Fatal("FetchLatest() expected error, got nil")
			}

			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("error type = %T, want *FetchError", err)
			}
			if fetchErr.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", fetchErr.Kind, tt.wantKind)
			}
			if tt.wantKind == KindStatus && fetchErr.Status != 401 {
				t.Errorf("Status = %d, want 401", fetchErr.Status)
			}
		})
	}
}

func TestFetchLatestMissingCallsList(t *testing.T) {
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(`{"status":"ok"}`))}, nil
		},
	})

	calls, err := client.FetchLatest(context.Background(), []string{"100"}, 10)
	if err != nil {
		t.Fatalf("FetchLatest() error = %v, want nil", err)
	}
	if len(calls) != 0 {
		t.Errorf("got %d calls, want 0", len(calls))
	}
}

func TestFetchLatestDropsInvalidRecords(t *testing.T) {
	payload := latestResponse{Calls: []models.Call{
		{
			CallID:      "c1",
			Timestamp:   "2026-08-25T10:00:00Z",
			AudioURL:    "https://audio.example.com/c1.mp3",
			Talkgroup:   "Fire Dispatch",
			Description: "Structure fire",
		},
		{
			// Missing audio_url, should be dropped
			CallID:      "c2",
			Timestamp:   "2026-08-25T10:01:00Z",
			Talkgroup:   "PD North",
			Description: "Traffic stop",
		},
		{
			CallID:      "c3",
			Timestamp:   "2026-08-25T10:02:00Z",
			AudioURL:    "https://audio.example.com/c3.mp3",
			Talkgroup:   "EMS",
			Description: "Medical call",
		},
	}}

	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			return jsonResponse(200, payload), nil
		},
	})

	calls, err := client.FetchLatest(context.Background(), []string{"100"}, 10)
	if err != nil {
		t.Fatalf("FetchLatest() error = %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].CallID != "c1" || calls[1].CallID != "c3" {
		t.Errorf("got call ids %s, %s; want c1, c3", calls[0].CallID, calls[1].CallID)
	}
	for _, call := range calls {
		if call.ReceivedAt.IsZero() {
			t.Errorf("call %s has zero ReceivedAt", call.CallID)
		}
	}
}

func TestFetchLatestDefaultLimit(t *testing.T) {
	var captured *http.Request
	client := newTestClient(&MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonResponse(200, latestResponse{Calls: []models.Call{}}), nil
		},
	})

	if _, err := client.FetchLatest(context.Background(), []string{"100"}, 0); err != nil {
		t.Fatalf("FetchLatest() error = %v", err)
	}
	if got := captured.URL.Query().Get("limit"); got != "10" {
		t.Errorf("limit = %q, want default %q", got, "10")
	}
}

package calls

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-reyes/broadcastify-calls-tui/internal/logger"
	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

// FeedProvider supplies the feed IDs to poll. The feeds service implements
// this; tests inject fakes.
type FeedProvider interface {
	FeedIDs() []string
}

// Fetcher is the fetch-client contract consumed by the poll loop.
type Fetcher interface {
	FetchLatest(ctx context.Context, feedIDs []string, limit int) ([]models.Call, error)
}

// Event represents a calls service event.
type Event struct {
	Error error
	Calls []models.Call
	Type  EventType
}

// EventType defines the type of calls event.
type EventType int

const (
	// EventNewCalls carries the deduplicated batch of a successful cycle.
	// The last element is the most recent call.
	EventNewCalls EventType = iota
	// EventPollError indicates that a poll cycle failed.
	EventPollError
)

// Config holds configuration for the calls service.
type Config struct {
	PollInterval time.Duration
	Limit        int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		Limit:        DefaultLimit,
	}
}

// Stats tracks poll loop counters.
type Stats struct {
	LastSuccess time.Time
	LastError   string
	Cycles      int64
	Failures    int64
	CallsSeen   int64
	LastBatch   int
}

// Service runs the poll-and-dedupe loop. One goroutine drives one fetch at
// a time, so lastSeenCallID needs no lock of its own; the mutex guards the
// snapshot accessors called from other goroutines.
type Service struct {
	fetcher   Fetcher
	feeds     FeedProvider
	eventChan chan Event
	stopChan  chan struct{}
	kickChan  chan struct{}
	config    Config

	mu             sync.RWMutex
	lastSeenCallID string
	latest         *models.Call
	stats          Stats
}

// New creates a calls service and starts the polling goroutine.
func New(fetcher Fetcher, feeds FeedProvider, config Config) *Service {
	if config.PollInterval == 0 {
		config = DefaultConfig()
	}
	if config.Limit <= 0 {
		config.Limit = DefaultLimit
	}

	s := &Service{
		fetcher:   fetcher,
		feeds:     feeds,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		kickChan:  make(chan struct{}, 1),
		config:    config,
	}

	go s.pollLoop()

	return s
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// LastSeenCallID returns the dedup cursor. Empty until the first cycle that
// yields new calls; never persisted, so it resets on restart.
func (s *Service) LastSeenCallID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeenCallID
}

// Latest returns the most recent call surfaced to observers, or nil.
func (s *Service) Latest() *models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil
	}
	call := *s.latest
	return &call
}

// GetStats returns a snapshot of the poll counters.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// RefreshNow triggers an immediate poll cycle without waiting for the tick.
func (s *Service) RefreshNow() {
	select {
	case s.kickChan <- struct{}{}:
	default:
	}
}

// Poll runs one fetch-sort-filter cycle and returns the newly observed
// calls in ascending timestamp order. A fetch failure leaves the cursor
// untouched and is reported both as the return error and as an
// EventPollError; it never stops future cycles.
func (s *Service) Poll(ctx context.Context) ([]models.Call, error) {
	batch, err := s.fetcher.FetchLatest(ctx, s.feeds.FeedIDs(), s.config.Limit)

	s.mu.Lock()
	s.stats.Cycles++
	s.mu.Unlock()

	if err != nil {
		s.mu.Lock()
		s.stats.Failures++
		s.stats.LastError = err.Error()
		s.mu.Unlock()
		logger.Error("poll cycle failed", "error", err)
		s.sendEvent(Event{Type: EventPollError, Error: err})
		return nil, err
	}

	fresh := s.dedupe(batch)

	s.mu.Lock()
	s.stats.LastSuccess = time.Now()
	s.stats.LastError = ""
	s.stats.LastBatch = len(fresh)
	s.stats.CallsSeen += int64(len(fresh))
	if len(fresh) > 0 {
		last := fresh[len(fresh)-1]
		s.lastSeenCallID = last.CallID
		s.latest = &last
	}
	s.mu.Unlock()

	if len(fresh) > 0 {
		logger.Debug("new calls observed", "count", len(fresh), "cursor", fresh[len(fresh)-1].CallID)
		s.sendEvent(Event{Type: EventNewCalls, Calls: fresh})
	}

	return fresh, nil
}

// dedupe sorts a batch ascending by timestamp and drops records already
// delivered. Filtering removes the exact cursor match only, mirroring the
// upstream API contract that batches overlap by at most the last call.
func (s *Service) dedupe(batch []models.Call) []models.Call {
	if len(batch) == 0 {
		return nil
	}

	sorted := make([]models.Call, len(batch))
	copy(sorted, batch)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Before(&sorted[j])
	})

	s.mu.RLock()
	cursor := s.lastSeenCallID
	s.mu.RUnlock()

	if cursor == "" {
		return sorted
	}

	fresh := sorted[:0]
	for _, call := range sorted {
		if call.CallID == cursor {
			continue
		}
		fresh = append(fresh, call)
	}
	if len(fresh) == 0 {
		return nil
	}
	return fresh
}

// pollLoop runs the background polling goroutine.
func (s *Service) pollLoop() {
	// Initial poll so the UI has something to show right away.
	s.runCycle()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runCycle()
		case <-s.kickChan:
			s.runCycle()
		case <-s.stopChan:
			return
		}
	}
}

// runCycle wraps one poll in a bounded context. Errors are already routed
// through the event channel inside Poll.
func (s *Service) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	_, _ = s.Poll(ctx)
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the service and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)
	return nil
}

// Package feeds provides feed list management with file watching and
// persistence.
package feeds

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/m-reyes/broadcastify-calls-tui/internal/logger"
	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

// FeedsFile represents the JSON file structure for feed storage.
type FeedsFile struct {
	Feeds   []models.Feed `json:"feeds"`
	Version int           `json:"version,omitempty"`
}

// Event represents a feeds service event.
type Event struct {
	Type  EventType
	Error error
	Feed  *models.Feed
}

// EventType defines the type of feeds event.
type EventType int

const (
	EventFeedsLoaded EventType = iota
	EventFeedsChanged
	EventFeedAdded
	EventFeedRemoved
	EventError
)

// Service manages the monitored feed list with file watching and change
// notifications. Edits to the feeds file take effect on the next poll.
type Service struct {
	mu            sync.RWMutex
	feeds         []models.Feed
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a feeds service and starts file watching. Seed IDs from the
// environment are merged into the file on first load so FEED_IDS works
// without hand-editing JSON.
func New(filePath string, seedIDs []string) (*Service, error) {
	s := &Service{
		feeds:     make([]models.Feed, 0),
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.loadFeeds(); err != nil {
		if os.IsNotExist(err) {
			if err := s.saveFeedsLocked(); err != nil {
				return nil, fmt.Errorf("failed to create feeds file: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to load feeds: %w", err)
		}
	}

	if err := s.mergeSeedIDs(seedIDs); err != nil {
		return nil, err
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventFeedsLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to feed changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// GetFeeds returns a copy of all feeds.
func (s *Service) GetFeeds() []models.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feeds := make([]models.Feed, len(s.feeds))
	copy(feeds, s.feeds)
	return feeds
}

// FeedIDs returns the IDs of all monitored feeds (implements
// calls.FeedProvider).
func (s *Service) FeedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.feeds))
	for i, f := range s.feeds {
		ids[i] = f.ID
	}
	return ids
}

// Count returns the number of monitored feeds.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feeds)
}

// AddFeed adds a new feed.
func (s *Service) AddFeed(feed models.Feed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if feed.ID == "" {
		return fmt.Errorf("feed id is required")
	}
	for _, f := range s.feeds {
		if f.ID == feed.ID {
			return fmt.Errorf("feed %s already monitored", feed.ID)
		}
	}

	if feed.AddedAt.IsZero() {
		feed.AddedAt = time.Now()
	}

	s.feeds = append(s.feeds, feed)

	if err := s.saveFeedsLocked(); err != nil {
		// Rollback
		s.feeds = s.feeds[:len(s.feeds)-1]
		return fmt.Errorf("failed to save feeds: %w", err)
	}

	s.sendEvent(Event{Type: EventFeedAdded, Feed: &feed})
	return nil
}

// RemoveFeed removes a feed by ID.
func (s *Service) RemoveFeed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	var removed models.Feed
	for i, f := range s.feeds {
		if f.ID == id {
			idx = i
			removed = f
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("feed not found: %s", id)
	}

	s.feeds = append(s.feeds[:idx], s.feeds[idx+1:]...)

	if err := s.saveFeedsLocked(); err != nil {
		return fmt.Errorf("failed to save feeds: %w", err)
	}

	s.sendEvent(Event{Type: EventFeedRemoved, Feed: &removed})
	return nil
}

// mergeSeedIDs appends any environment-supplied IDs not already in the file.
func (s *Service) mergeSeedIDs(seedIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]struct{}, len(s.feeds))
	for _, f := range s.feeds {
		known[f.ID] = struct{}{}
	}

	added := false
	for _, id := range seedIDs {
		if _, ok := known[id]; ok {
			continue
		}
		s.feeds = append(s.feeds, models.Feed{ID: id, AddedAt: time.Now()})
		known[id] = struct{}{}
		added = true
	}

	if !added {
		return nil
	}
	if err := s.saveFeedsLocked(); err != nil {
		return fmt.Errorf("failed to save feeds: %w", err)
	}
	return nil
}

// loadFeeds reads the feeds file from disk.
func (s *Service) loadFeeds() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file FeedsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse feeds file: %w", err)
	}

	s.mu.Lock()
	s.feeds = file.Feeds
	if s.feeds == nil {
		s.feeds = make([]models.Feed, 0)
	}
	s.mu.Unlock()

	return nil
}

// saveFeedsLocked writes the feeds file; callers hold the lock.
func (s *Service) saveFeedsLocked() error {
	file := FeedsFile{Feeds: s.feeds, Version: 1}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, data, 0o600)
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory (to catch file creation/deletion)
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Only care about our feeds file
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.handleFileChange()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads feeds after an external edit.
func (s *Service) handleFileChange() {
	if err := s.loadFeeds(); err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	s.sendEvent(Event{Type: EventFeedsChanged})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
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

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Package services provides service orchestration for the TUI.
package services

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/m-reyes/broadcastify-calls-tui/internal/config"
	"github.com/m-reyes/broadcastify-calls-tui/internal/db"
	"github.com/m-reyes/broadcastify-calls-tui/internal/logger"
	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services/calls"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services/feeds"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services/player"
)

type (
	// NewCallsEvent is emitted when a poll cycle surfaces unseen calls.
	// Calls are ordered ascending by timestamp; the last element is the
	// one status displays surface as "current".
	NewCallsEvent struct {
		Calls []models.Call
	}

	// PollErrorEvent is emitted when a poll cycle fails.
	PollErrorEvent struct {
		Error error
	}

	// FeedsChangedEvent is emitted when the monitored feed list changes.
	FeedsChangedEvent struct {
		Feeds []models.Feed
	}

	// PlayerEvent is emitted when the player state changes.
	PlayerEvent struct {
		Call  *models.Call
		State player.State
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// StatsEvent is emitted when global statistics change.
	StatsEvent struct {
		LastError   string
		FeedCount   int
		Cycles      int64
		Failures    int64
		CallsSeen   int64
		StoredCalls int
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (NewCallsEvent) isServiceEvent()     {}
func (PollErrorEvent) isServiceEvent()    {}
func (FeedsChangedEvent) isServiceEvent() {}
func (PlayerEvent) isServiceEvent()       {}
func (ErrorEvent) isServiceEvent()        {}
func (StatsEvent) isServiceEvent()        {}

// Manager orchestrates services and event routing.
type Manager struct {
	feeds       *feeds.Service
	calls       *calls.Service
	player      *player.Service
	database    *db.DB
	autoPlay    bool
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan ServiceEvent
	mu          sync.RWMutex
}

// NewManager creates a new service manager and starts all background
// services: feed watching and call polling.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan: make(chan ServiceEvent, 100),
		stopChan:  make(chan struct{}),
		autoPlay:  cfg.AutoPlay,
	}

	var err error
	m.feeds, err = feeds.New(cfg.FeedsPath, cfg.FeedIDs)
	if err != nil {
		return nil, err
	}

	if m.feeds.Count() == 0 {
		return nil, fmt.Errorf("no feeds configured: set FEED_IDS or edit %s", cfg.FeedsPath)
	}

	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.player = player.New(cfg.PlayerCommand)

	client := calls.NewClient(cfg.APIBaseURL, cfg.APIKey)
	m.calls = calls.New(client, m.feeds, calls.Config{
		PollInterval: cfg.ScanInterval,
		Limit:        calls.DefaultLimit,
	})

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.calls.Events():
			m.handleCallsEvent(event)

		case event := <-m.feeds.Events():
			m.handleFeedsEvent(event)

		case event := <-m.player.Events():
			m.handlePlayerEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleCallsEvent persists, notifies, and broadcasts a calls service event.
func (m *Manager) handleCallsEvent(event calls.Event) {
	switch event.Type {
	case calls.EventNewCalls:
		m.recordCalls(event.Calls)
		m.broadcast(NewCallsEvent{Calls: event.Calls})

		if len(event.Calls) > 0 {
			latest := event.Calls[len(event.Calls)-1]
			m.notifyNewCall(&latest)

			if m.autoPlay {
				m.player.Play(latest)
			}
		}

		m.broadcast(m.GetStats())

	case calls.EventPollError:
		if m.database != nil {
			if err := m.database.InsertPollCycle(0, event.Error); err != nil {
				logger.Error("failed to record poll cycle", "error", err)
			}
		}
		m.broadcast(PollErrorEvent{Error: event.Error})
		m.broadcast(ErrorEvent{Service: "calls", Error: event.Error})
	}
}

func (m *Manager) handleFeedsEvent(event feeds.Event) {
	switch event.Type {
	case feeds.EventFeedsLoaded, feeds.EventFeedsChanged,
		feeds.EventFeedAdded, feeds.EventFeedRemoved:
		m.broadcast(FeedsChangedEvent{Feeds: m.feeds.GetFeeds()})

	case feeds.EventError:
		m.broadcast(ErrorEvent{Service: "feeds", Error: event.Error})
	}
}

func (m *Manager) handlePlayerEvent(event player.Event) {
	switch event.Type {
	case player.EventPlaying:
		m.broadcast(PlayerEvent{State: player.StatePlaying, Call: event.Call})
	case player.EventStopped:
		m.broadcast(PlayerEvent{State: player.StateIdle})
	case player.EventPlayerError:
		m.broadcast(ErrorEvent{Service: "player", Error: event.Error})
	}
}

// recordCalls writes a published batch to history.
func (m *Manager) recordCalls(batch []models.Call) {
	if m.database == nil {
		return
	}
	for i := range batch {
		if err := m.database.InsertCall(&batch[i]); err != nil {
			logger.Error("failed to record call", "call_id", batch[i].CallID, "error", err)
		}
	}
	if err := m.database.InsertPollCycle(len(batch), nil); err != nil {
		logger.Error("failed to record poll cycle", "error", err)
	}
}

// notifyNewCall fires a desktop notification for the latest call of a batch.
func (m *Manager) notifyNewCall(call *models.Call) {
	title := fmt.Sprintf("New call: %s", call.Talkgroup)
	_ = beeep.Notify(title, call.Description, "")
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// GetStats returns aggregated statistics.
func (m *Manager) GetStats() StatsEvent {
	pollStats := m.calls.GetStats()

	stored := 0
	if m.database != nil {
		if n, err := m.database.CountCalls(); err == nil {
			stored = n
		}
	}

	return StatsEvent{
		FeedCount:   m.feeds.Count(),
		Cycles:      pollStats.Cycles,
		Failures:    pollStats.Failures,
		CallsSeen:   pollStats.CallsSeen,
		LastError:   pollStats.LastError,
		StoredCalls: stored,
	}
}

// LatestCall returns the most recent call surfaced to observers, or nil.
func (m *Manager) LatestCall() *models.Call {
	return m.calls.Latest()
}

// RecentCalls returns the newest stored calls.
func (m *Manager) RecentCalls(limit int) []models.Call {
	if m.database == nil {
		return nil
	}
	recent, err := m.database.GetRecentCalls(limit)
	if err != nil {
		logger.Error("failed to load recent calls", "error", err)
		return nil
	}
	return recent
}

// RefreshNow triggers an immediate poll cycle.
func (m *Manager) RefreshNow() {
	m.calls.RefreshNow()
}

// GetCallHistory retrieves call history statistics for a time range.
func (m *Manager) GetCallHistory(timeRange models.TimeRange) (*models.CallHistoryStats, error) {
	if m.database == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return m.database.GetCallHistoryStats(timeRange)
}

// Feeds returns the feeds service.
func (m *Manager) Feeds() *feeds.Service {
	return m.feeds
}

// Calls returns the calls service.
func (m *Manager) Calls() *calls.Service {
	return m.calls
}

// Player returns the player service.
func (m *Manager) Player() *player.Service {
	return m.player
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.feeds.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := m.calls.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// InitialState returns the initial state of all services for TUI
// initialization.
func (m *Manager) InitialState() ([]models.Feed, []models.Call, StatsEvent) {
	return m.feeds.GetFeeds(), m.RecentCalls(25), m.GetStats()
}

// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services/player"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	// maxRecentCalls bounds the in-memory call list shown on the live tab.
	maxRecentCalls = 100
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Calls   bool
	Stats   bool
}

// State is the shared application state read by all tabs.
type State struct {
	mu sync.RWMutex

	LatestCall  *models.Call
	RecentCalls []models.Call
	Feeds       []models.Feed
	Stats       *services.StatsEvent
	PlayerState player.State
	PlayingCall *models.Call

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial application state.
func NewState() *State {
	return &State{
		RecentCalls:   make([]models.Call, 0),
		Feeds:         make([]models.Feed, 0),
		PlayerState:   player.StateIdle,
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "calls":
		s.Loading.Calls = loading
	case "stats":
		s.Loading.Stats = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial || s.Loading.Calls || s.Loading.Stats
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// AddCalls prepends a published batch to the recent call list. The batch
// arrives oldest first; the list is kept newest first and bounded.
func (s *State) AddCalls(batch []models.Call) {
	if len(batch) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	latest := batch[len(batch)-1]
	s.LatestCall = &latest

	for i := len(batch) - 1; i >= 0; i-- {
		s.RecentCalls = append([]models.Call{batch[i]}, s.RecentCalls...)
	}
	if len(s.RecentCalls) > maxRecentCalls {
		s.RecentCalls = s.RecentCalls[:maxRecentCalls]
	}

	s.LastUpdated = time.Now()
}

// SetRecentCalls replaces the recent call list (newest first).
func (s *State) SetRecentCalls(calls []models.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.RecentCalls = calls
	if len(calls) > 0 && s.LatestCall == nil {
		latest := calls[0]
		s.LatestCall = &latest
	}
	s.LastUpdated = time.Now()
}

// GetRecentCalls returns a copy of the recent call list.
func (s *State) GetRecentCalls() []models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calls := make([]models.Call, len(s.RecentCalls))
	copy(calls, s.RecentCalls)
	return calls
}

// GetLatestCall returns the most recent call, or nil.
func (s *State) GetLatestCall() *models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LatestCall
}

// SetFeeds replaces the monitored feed list.
func (s *State) SetFeeds(feeds []models.Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Feeds = feeds
}

// GetFeeds returns a copy of the feed list.
func (s *State) GetFeeds() []models.Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feeds := make([]models.Feed, len(s.Feeds))
	copy(feeds, s.Feeds)
	return feeds
}

// SetPlayer updates the player state and currently playing call.
func (s *State) SetPlayer(state player.State, call *models.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.PlayerState = state
	s.PlayingCall = call
}

// GetPlayer returns the player state and currently playing call.
func (s *State) GetPlayer() (player.State, *models.Call) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PlayerState, s.PlayingCall
}

// SetStats updates the statistics.
func (s *State) SetStats(stats services.StatsEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stats = &stats
}

// GetStats returns the current statistics.
func (s *State) GetStats() *services.StatsEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time call data changed.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}

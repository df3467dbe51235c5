package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
	"github.com/m-reyes/broadcastify-calls-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// InitialDataMsg contains the initial service snapshot.
type InitialDataMsg struct {
	Feeds       []models.Feed
	RecentCalls []models.Call
	Stats       services.StatsEvent
}

// StatsLoadedMsg contains loaded statistics.
type StatsLoadedMsg struct {
	Stats services.StatsEvent
}

// HistoryLoadedMsg contains loaded call history statistics.
type HistoryLoadedMsg struct {
	Stats *models.CallHistoryStats
	Error error
}

// RefreshMsg requests an immediate poll cycle.
type RefreshMsg struct{}

// PlayCallMsg requests playback of a call.
type PlayCallMsg struct {
	Call models.Call
}

// StopPlaybackMsg requests stopping playback.
type StopPlaybackMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}

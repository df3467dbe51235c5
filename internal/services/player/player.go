// Package player exposes the latest call audio as a playable media source.
//
// The service is a small state machine (idle/playing) over the current
// audio URL. Routing audio to real hardware is out of scope; when a player
// command is configured it is exec'd with the URL, otherwise the service
// only tracks state for the UI and for downstream automations.
package player

import (
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/m-reyes/broadcastify-calls-tui/internal/logger"
	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

// State describes the player state.
type State int

const (
	// StateIdle means no media is loaded.
	StateIdle State = iota
	// StatePlaying means a call's audio is the current media source.
	StatePlaying
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// Event represents a player service event.
type Event struct {
	Error error
	Call  *models.Call
	Type  EventType
}

// EventType defines the type of player event.
type EventType int

const (
	// EventPlaying indicates playback of a new call started.
	EventPlaying EventType = iota
	// EventStopped indicates playback stopped.
	EventStopped
	// EventPlayerError indicates the external player command failed.
	EventPlayerError
)

// Service tracks the current media source and optionally shells out to an
// external player.
type Service struct {
	mu        sync.RWMutex
	command   string
	state     State
	current   *models.Call
	startedAt time.Time
	eventChan chan Event
}

// New creates a player service. command may be empty for state-only mode.
func New(command string) *Service {
	return &Service{
		command:   command,
		state:     StateIdle,
		eventChan: make(chan Event, 16),
	}
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// State returns the current player state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the call currently loaded as the media source, or nil.
func (s *Service) Current() *models.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	call := *s.current
	return &call
}

// Play makes the call's audio the current media source. Playing the call
// already loaded is a no-op so repeated batches don't restart audio.
func (s *Service) Play(call models.Call) {
	s.mu.Lock()
	if s.current != nil && s.current.AudioURL == call.AudioURL {
		s.mu.Unlock()
		return
	}
	s.state = StatePlaying
	s.current = &call
	s.startedAt = time.Now()
	command := s.command
	s.mu.Unlock()

	logger.Info("playing call audio", "call_id", call.CallID, "url", call.AudioURL)
	s.sendEvent(Event{Type: EventPlaying, Call: &call})

	if command != "" {
		go s.runCommand(command, call)
	}
}

// Stop clears the media source.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.state == StateIdle {
		s.mu.Unlock()
		return
	}
	s.state = StateIdle
	s.current = nil
	s.mu.Unlock()

	logger.Info("stopped call audio")
	s.sendEvent(Event{Type: EventStopped})
}

// runCommand invokes the configured external player with the audio URL
// appended as the final argument. The command is split on whitespace;
// arguments with embedded spaces are not supported.
func (s *Service) runCommand(command string, call models.Call) {
	words := strings.Fields(command)
	if len(words) == 0 {
		return
	}

	args := append(words[1:], call.AudioURL)
	cmd := exec.Command(words[0], args...)
	if err := cmd.Run(); err != nil {
		logger.Error("player command failed", "command", words[0], "error", err)
		s.sendEvent(Event{Type: EventPlayerError, Call: &call, Error: err})
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
	}
}

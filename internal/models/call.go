// Package models defines data structures and domain types.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingField indicates a call entry arrived without a required field.
var ErrMissingField = errors.New("missing required field")

// Call represents one dispatch-call event returned by the Broadcastify
// Calls API.
type Call struct {
	CallID      string `json:"call_id"`
	Timestamp   string `json:"timestamp"`
	AudioURL    string `json:"audio_url"`
	Talkgroup   string `json:"talkgroup"`
	Description string `json:"description"`
	FeedID      string `json:"feed_id,omitempty"`

	// ReceivedAt is set locally when the call first enters a poll batch.
	ReceivedAt time.Time `json:"-"`
}

// timestampLayouts are tried in order when parsing the upstream timestamp.
// The API documents RFC3339 but feeds have been observed emitting the
// space-separated variant.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Validate checks that all five required fields are present. Entries that
// fail validation are dropped before they reach the poll loop.
func (c *Call) Validate() error {
	for _, f := range []struct {
		name  string
		value string
	}{
		{"call_id", c.CallID},
		{"timestamp", c.Timestamp},
		{"audio_url", c.AudioURL},
		{"talkgroup", c.Talkgroup},
		{"description", c.Description},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, f.name)
		}
	}
	return nil
}

// Time parses the upstream timestamp into a real time value. The boolean
// reports whether parsing succeeded; callers fall back to lexicographic
// ordering when it did not.
func (c *Call) Time() (time.Time, bool) {
	ts := strings.TrimSpace(c.Timestamp)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Before reports whether c is chronologically earlier than other. Parsed
// times are compared when both sides parse; otherwise the raw timestamp
// strings are compared as text.
func (c *Call) Before(other *Call) bool {
	ct, cok := c.Time()
	ot, ook := other.Time()
	if cok && ook {
		return ct.Before(ot)
	}
	return c.Timestamp < other.Timestamp
}

// Title returns a short human-readable label for status displays and
// notifications.
func (c *Call) Title() string {
	if c.Talkgroup == "" {
		return c.CallID
	}
	return fmt.Sprintf("%s - %s", c.Talkgroup, c.Description)
}

// Package models defines data structures and domain types.
package models

import "time"

// Feed represents one upstream Broadcastify feed being monitored.
type Feed struct {
	ID      string    `json:"id"`
	Name    string    `json:"name,omitempty"`
	County  string    `json:"county,omitempty"`
	AddedAt time.Time `json:"addedAt,omitempty"`
}

// Label returns the display name for a feed, falling back to the raw ID.
func (f *Feed) Label() string {
	if f.Name != "" {
		return f.Name
	}
	return f.ID
}

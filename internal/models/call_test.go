package models

import (
	"errors"
	"testing"
	"time"
)

func validCall() Call {
	return Call{
		CallID:      "c1",
		Timestamp:   "2026-08-25T10:00:00Z",
		AudioURL:    "https://audio.example.com/c1.mp3",
		Talkgroup:   "Fire Dispatch",
		Description: "Structure fire",
	}
}

func TestCallValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Call)
		wantOK bool
	}{
		{"Valid", func(c *Call) {}, true},
		{"MissingCallID", func(c *Call) { c.CallID = "" }, false},
		{"MissingTimestamp", func(c *Call) { c.Timestamp = "" }, false},
		{"MissingAudioURL", func(c *Call) { c.AudioURL = "" }, false},
		{"MissingTalkgroup", func(c *Call) { c.Talkgroup = "" }, false},
		{"MissingDescription", func(c *Call) { c.Description = "" }, false},
		{"WhitespaceOnly", func(c *Call) { c.Talkgroup = "   " }, false},
		{"OptionalFeedID", func(c *Call) { c.FeedID = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := validCall()
			tt.mutate(&call)

			err := call.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.wantOK {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				if !errors.Is(err, ErrMissingField) {
					t.Errorf("Validate() error = %v, want ErrMissingField", err)
				}
			}
		})
	}
}

func TestCallTime(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		wantOK    bool
		want      time.Time
	}{
		{
			name:      "RFC3339",
			timestamp: "2026-08-25T10:00:00Z",
			wantOK:    true,
			want:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "RFC3339Nano",
			timestamp: "2026-08-25T10:00:00.123456789Z",
			wantOK:    true,
			want:      time.Date(2026, 8, 25, 10, 0, 0, 123456789, time.UTC),
		},
		{
			name:      "SpaceSeparated",
			timestamp: "2026-08-25 10:00:00",
			wantOK:    true,
			want:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "NoZone",
			timestamp: "2026-08-25T10:00:00",
			wantOK:    true,
			want:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "Unparseable",
			timestamp: "yesterday",
			wantOK:    false,
		},
		{
			name:      "LeadingWhitespace",
			timestamp: "  2026-08-25T10:00:00Z  ",
			wantOK:    true,
			want:      time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := Call{Timestamp: tt.timestamp}
			got, ok := call.Time()
			if ok != tt.wantOK {
				t.Fatalf("Time() ok = %t, want %t", ok, tt.wantOK)
			}
			if tt.wantOK && !got.Equal(tt.want) {
				t.Errorf("Time() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCallBefore(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"ParsedEarlier", "2026-08-25T10:00:00Z", "2026-08-25T10:01:00Z", true},
		{"ParsedLater", "2026-08-25T10:01:00Z", "2026-08-25T10:00:00Z", false},
		{"ParsedEqual", "2026-08-25T10:00:00Z", "2026-08-25T10:00:00Z", false},
		{"MixedLayouts", "2026-08-25 09:59:00", "2026-08-25T10:00:00Z", true},
		{"StringFallback", "aaa", "bbb", true},
		{"StringFallbackMixed", "2026-08-25T10:00:00Z", "zzz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Call{Timestamp: tt.a}
			b := Call{Timestamp: tt.b}
			if got := a.Before(&b); got != tt.want {
				t.Errorf("Before() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestCallTitle(t *testing.T) {
	tests := []struct {
		name string
		call Call
		want string
	}{
		{
			name: "WithTalkgroup",
			call: Call{CallID: "c1", Talkgroup: "Fire Dispatch", Description: "Structure fire"},
			want: "Fire Dispatch - Structure fire",
		},
		{
			name: "NoTalkgroup",
			call: Call{CallID: "c1"},
			want: "c1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.call.Title(); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

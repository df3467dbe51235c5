// Package models defines data structures and domain types.
package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange24Hours shows data from the last 24 hours.
	TimeRange24Hours TimeRange = iota
	// TimeRange7Days shows data from the last 7 days.
	TimeRange7Days
	// TimeRange30Days shows data from the last 30 days.
	TimeRange30Days
	// TimeRangeAllTime shows all available historical data.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange24Hours:
		return "24 Hours"
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the number of days for the time range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange24Hours:
		return 1
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// HourlyCallVolume is one bucket of the call volume chart.
type HourlyCallVolume struct {
	Hour  time.Time
	Count int
}

// TalkgroupStats aggregates call counts per talkgroup.
type TalkgroupStats struct {
	LastHeard time.Time
	Talkgroup string
	Count     int
}

// FeedStats aggregates call counts per feed.
type FeedStats struct {
	LastHeard time.Time
	FeedID    string
	Count     int
}

// CallHistoryStats contains everything the history tab renders for the
// selected time range.
type CallHistoryStats struct {
	FirstCall    time.Time
	LastCall     time.Time
	HourlyVolume []HourlyCallVolume
	Talkgroups   []TalkgroupStats
	Feeds        []FeedStats
	TotalCalls   int
	TimeRange    TimeRange
}

// HasData returns true if any calls fall inside the range.
func (s *CallHistoryStats) HasData() bool {
	return s.TotalCalls > 0
}

// BusiestTalkgroup returns the talkgroup with the most calls in range, or
// nil when the range holds no calls.
func (s *CallHistoryStats) BusiestTalkgroup() *TalkgroupStats {
	if len(s.Talkgroups) == 0 {
		return nil
	}
	busiest := s.Talkgroups[0]
	for _, tg := range s.Talkgroups[1:] {
		if tg.Count > busiest.Count {
			busiest = tg
		}
	}
	return &busiest
}

package models

import (
	"testing"
	"time"
)

func TestTimeRangeCycle(t *testing.T) {
	order := []TimeRange{TimeRange24Hours, TimeRange7Days, TimeRange30Days, TimeRangeAllTime}

	current := TimeRange24Hours
	for i := 1; i <= len(order); i++ {
		current = current.Next()
		want := order[i%len(order)]
		if current != want {
			t.Errorf("Next() step %d = %v, want %v", i, current, want)
		}
	}
}

func TestTimeRangeDays(t *testing.T) {
	tests := []struct {
		r    TimeRange
		want int
	}{
		{TimeRange24Hours, 1},
		{TimeRange7Days, 7},
		{TimeRange30Days, 30},
		{TimeRangeAllTime, 0},
	}

	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			if got := tt.r.Days(); got != tt.want {
				t.Errorf("Days() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBusiestTalkgroup(t *testing.T) {
	stats := &CallHistoryStats{
		Talkgroups: []TalkgroupStats{
			{Talkgroup: "PD North", Count: 2, LastHeard: time.Now()},
			{Talkgroup: "Fire Dispatch", Count: 5, LastHeard: time.Now()},
			{Talkgroup: "EMS", Count: 1, LastHeard: time.Now()},
		},
	}

	busiest := stats.BusiestTalkgroup()
	if busiest == nil {
		t.Fatal("BusiestTalkgroup() = nil, want value")
	}
	if busiest.Talkgroup != "Fire Dispatch" || busiest.Count != 5 {
		t.Errorf("BusiestTalkgroup() = %s/%d, want Fire Dispatch/5", busiest.Talkgroup, busiest.Count)
	}
}

func TestBusiestTalkgroupEmpty(t *testing.T) {
	stats := &CallHistoryStats{}
	if got := stats.BusiestTalkgroup(); got != nil {
		t.Errorf("BusiestTalkgroup() = %+v, want nil", got)
	}
}

func TestHasData(t *testing.T) {
	if (&CallHistoryStats{}).HasData() {
		t.Error("HasData() = true for zero stats, want false")
	}
	if !(&CallHistoryStats{TotalCalls: 1}).HasData() {
		t.Error("HasData() = false with calls present, want true")
	}
}

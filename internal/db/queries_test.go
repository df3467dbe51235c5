package db

import (
	"errors"
	"testing"
	"time"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

var errTest = errors.New("poll failed")

func testCall(id string, ts time.Time) *models.Call {
	return &models.Call{
		CallID:      id,
		Timestamp:   ts.UTC().Format(time.RFC3339),
		AudioURL:    "https://audio.example.com/" + id + ".mp3",
		Talkgroup:   "Dispatch",
		Description: "call " + id,
		ReceivedAt:  time.Now(),
	}
}

func TestInsertCallAndCount(t *testing.T) {
	database := newTestDB(t)

	now := time.Now()
	for i, id := range []string{"c1", "c2", "c3"} {
		call := testCall(id, now.Add(time.Duration(i)*time.Minute))
		if err := database.InsertCall(call); err != nil {
			t.Fatalf("InsertCall(%s) error = %v", id, err)
		}
	}

	count, err := database.CountCalls()
	if err != nil {
		t.Fatalf("CountCalls() error = %v", err)
	}
	if count != 3 {
		t.Errorf("CountCalls() = %d, want 3", count)
	}
}

func TestInsertCallIgnoresDuplicates(t *testing.T) {
	database := newTestDB(t)

	call := testCall("c1", time.Now())
	for i := 0; i < 3; i++ {
		if err := database.InsertCall(call); err != nil {
			t.Fatalf("InsertCall() attempt %d error = %v", i, err)
		}
	}

	count, err := database.CountCalls()
	if err != nil {
		t.Fatalf("CountCalls() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountCalls() = %d, want 1 after duplicate inserts", count)
	}
}

func TestInsertCallUnparseableTimestamp(t *testing.T) {
	database := newTestDB(t)

	call := &models.Call{
		CallID:      "c1",
		Timestamp:   "sometime today",
		AudioURL:    "https://audio.example.com/c1.mp3",
		Talkgroup:   "Dispatch",
		Description: "garbled",
		ReceivedAt:  time.Now(),
	}

	if err := database.InsertCall(call); err != nil {
		t.Fatalf("InsertCall() error = %v", err)
	}

	calls, err := database.GetRecentCalls(10)
	if err != nil {
		t.Fatalf("GetRecentCalls() error = %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	// The raw timestamp is preserved even when it cannot be parsed.
	if calls[0].Timestamp != "sometime today" {
		t.Errorf("Timestamp = %q, want raw value preserved", calls[0].Timestamp)
	}
}

func TestGetRecentCallsOrder(t *testing.T) {
	database := newTestDB(t)

	base := time.Now().Add(-time.Hour)
	// Insert out of chronological order.
	for _, rec := range []struct {
		id     string
		offset time.Duration
	}{
		{"c2", 10 * time.Minute},
		{"c1", 0},
		{"c3", 20 * time.Minute},
	} {
		if err := database.InsertCall(testCall(rec.id, base.Add(rec.offset))); err != nil {
			t.Fatalf("InsertCall(%s) error = %v", rec.id, err)
		}
	}

	calls, err := database.GetRecentCalls(10)
	if err != nil {
		t.Fatalf("GetRecentCalls() error = %v", err)
	}

	wantOrder := []string{"c3", "c2", "c1"}
	if len(calls) != len(wantOrder) {
		t.Fatalf("got %d calls, want %d", len(calls), len(wantOrder))
	}
	for i, id := range wantOrder {
		if calls[i].CallID != id {
			t.Errorf("calls[%d].CallID = %s, want %s", i, calls[i].CallID, id)
		}
	}
}

func TestGetRecentCallsLimit(t *testing.T) {
	database := newTestDB(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		call := testCall(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
		if err := database.InsertCall(call); err != nil {
			t.Fatalf("InsertCall() error = %v", err)
		}
	}

	calls, err := database.GetRecentCalls(2)
	if err != nil {
		t.Fatalf("GetRecentCalls() error = %v", err)
	}
	if len(calls) != 2 {
		t.Errorf("got %d calls, want 2", len(calls))
	}
}

func TestGetRecentCallsFeedID(t *testing.T) {
	database := newTestDB(t)

	withFeed := testCall("c1", time.Now())
	withFeed.FeedID = "100"
	if err := database.InsertCall(withFeed); err != nil {
		t.Fatalf("InsertCall() error = %v", err)
	}

	withoutFeed := testCall("c2", time.Now().Add(time.Minute))
	if err := database.InsertCall(withoutFeed); err != nil {
		t.Fatalf("InsertCall() error = %v", err)
	}

	calls, err := database.GetRecentCalls(10)
	if err != nil {
		t.Fatalf("GetRecentCalls() error = %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	// Newest first: c2 has no feed, c1 has one.
	if calls[0].FeedID != "" {
		t.Errorf("calls[0].FeedID = %q, want empty", calls[0].FeedID)
	}
	if calls[1].FeedID != "100" {
		t.Errorf("calls[1].FeedID = %q, want %q", calls[1].FeedID, "100")
	}
}

func TestInsertPollCycle(t *testing.T) {
	database := newTestDB(t)

	if err := database.InsertPollCycle(3, nil); err != nil {
		t.Fatalf("InsertPollCycle() error = %v", err)
	}
	if err := database.InsertPollCycle(0, errTest); err != nil {
		t.Fatalf("InsertPollCycle() with error = %v", err)
	}

	var count int
	if err := database.QueryRow(`SELECT COUNT(*) FROM poll_cycles`).Scan(&count); err != nil {
		t.Fatalf("count poll_cycles: %v", err)
	}
	if count != 2 {
		t.Errorf("poll_cycles count = %d, want 2", count)
	}

	var errStr string
	err := database.QueryRow(
		`SELECT error FROM poll_cycles WHERE error IS NOT NULL`,
	).Scan(&errStr)
	if err != nil {
		t.Fatalf("query failed cycle: %v", err)
	}
	if errStr != errTest.Error() {
		t.Errorf("stored error = %q, want %q", errStr, errTest.Error())
	}
}

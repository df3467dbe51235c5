package feeds

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/m-reyes/broadcastify-calls-tui/internal/models"
)

func newTestService(t *testing.T, seedIDs []string) *Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "feeds.json")
	s, err := New(path, seedIDs)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return s
}

func TestNewCreatesFile(t *testing.T) {
	s := newTestService(t, nil)

	if _, err := os.Stat(s.filePath); err != nil {
		t.Errorf("feeds file not created: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestNewMergesSeedIDs(t *testing.T) {
	s := newTestService(t, []string{"100", "200"})

	if got := s.FeedIDs(); !reflect.DeepEqual(got, []string{"100", "200"}) {
		t.Errorf("FeedIDs() = %v, want [100 200]", got)
	}

	// Seeds are persisted to the file.
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		t.Fatalf("read feeds file: %v", err)
	}
	var file FeedsFile
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("parse feeds file: %v", err)
	}
	if len(file.Feeds) != 2 {
		t.Errorf("persisted %d feeds, want 2", len(file.Feeds))
	}
}

func TestNewLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feeds.json")

	existing := FeedsFile{
		Feeds:   []models.Feed{{ID: "100", Name: "County Fire"}},
		Version: 1,
	}
	data, _ := json.Marshal(existing)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write feeds file: %v", err)
	}

	s, err := New(path, []string{"100", "300"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	// 100 already known, only 300 is merged.
	if got := s.FeedIDs(); !reflect.DeepEqual(got, []string{"100", "300"}) {
		t.Errorf("FeedIDs() = %v, want [100 300]", got)
	}

	feeds := s.GetFeeds()
	if feeds[0].Name != "County Fire" {
		t.Errorf("feed name = %q, want existing metadata preserved", feeds[0].Name)
	}
}

func TestAddFeed(t *testing.T) {
	s := newTestService(t, nil)

	if err := s.AddFeed(models.Feed{ID: "100", Name: "County Fire"}); err != nil {
		t.Fatalf("AddFeed() error = %v", err)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}

	if err := s.AddFeed(models.Feed{ID: "100"}); err == nil {
		t.Error("AddFeed() duplicate expected error, got nil")
	}
	if err := s.AddFeed(models.Feed{}); err == nil {
		t.Error("AddFeed() empty ID expected error, got nil")
	}
}

func TestRemoveFeed(t *testing.T) {
	s := newTestService(t, []string{"100", "200"})

	if err := s.RemoveFeed("100"); err != nil {
		t.Fatalf("RemoveFeed() error = %v", err)
	}
	if got := s.FeedIDs(); !reflect.DeepEqual(got, []string{"200"}) {
		t.Errorf("FeedIDs() = %v, want [200]", got)
	}

	if err := s.RemoveFeed("999"); err == nil {
		t.Error("RemoveFeed() unknown ID expected error, got nil")
	}
}

func TestGetFeedsReturnsCopy(t *testing.T) {
	s := newTestService(t, []string{"100"})

	feeds := s.GetFeeds()
	feeds[0].ID = "mutated"

	if got := s.FeedIDs()[0]; got != "100" {
		t.Errorf("internal feed mutated to %q", got)
	}
}

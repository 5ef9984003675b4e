package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.Record(Event{
			At:       base.Add(time.Duration(i) * time.Hour),
			WakeAt:   base.Add(7 * time.Hour),
			Response: "done",
			Action:   ActionShutdown,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	events, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("Recent returned %d events, want 3", len(events))
	}
	// Newest first.
	if !events[0].At.After(events[1].At) || !events[1].At.After(events[2].At) {
		t.Errorf("events not newest-first: %v, %v, %v", events[0].At, events[1].At, events[2].At)
	}
	if events[0].Response != "done" || events[0].Action != ActionShutdown {
		t.Errorf("event fields not round-tripped: %+v", events[0])
	}
	if !events[0].WakeAt.Equal(base.Add(7 * time.Hour)) {
		t.Errorf("WakeAt = %v, want %v", events[0].WakeAt, base.Add(7*time.Hour))
	}
}

func TestRecentLimit(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := s.Record(Event{At: at, WakeAt: at, Action: ActionDryRun}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	events, err := s.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("Recent(2) returned %d events", len(events))
	}
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		if err := s.Record(Event{At: at, WakeAt: at, Response: "ok", Action: ActionSkipped}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := s.Prune(4); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	events, err := s.Recent(100)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 4 {
		t.Errorf("after Prune(4) store has %d events", len(events))
	}
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	events, err := s.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("Recent on empty store returned %d events", len(events))
	}
}

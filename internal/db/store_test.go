// internal/db/store_test.go
package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore(t *testing.T) {
	store := openTestStore(t)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.StartRun("run-1", "Hybrid Vector-SQL Database", "Lena,Dr. Aris Thorne,Clara Vale", start); err != nil {
		t.Fatalf("StartRun() failed: %v", err)
	}

	run, err := store.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if !run.Running() {
		t.Error("new run should be running")
	}
	if run.Topic != "Hybrid Vector-SQL Database" {
		t.Errorf("unexpected topic %q", run.Topic)
	}

	if err := store.FinishRun("run-1", "user_stopped", 5, start.Add(90*time.Second)); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	run, err = store.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if run.Running() {
		t.Error("finished run should not be running")
	}
	if run.EndReason != "user_stopped" || run.Lines != 5 {
		t.Errorf("unexpected run %+v", run)
	}
	if run.Duration() != 90*time.Second {
		t.Errorf("Duration = %s, want 90s", run.Duration())
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		if err := store.StartRun(id, "", "Lena", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("unexpected order: %s, %s", runs[0].ID, runs[1].ID)
	}

	all, err := store.ListRuns(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 runs, got %d", len(all))
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openTestStore(t)
	err := store.FinishRun("missing", "user_stopped", 0, time.Now())
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.GetRun("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestCloseDangling(t *testing.T) {
	store := openTestStore(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.StartRun("open", "", "Lena", now)
	store.StartRun("done", "", "Lena", now)
	store.FinishRun("done", "generation_ended", 3, now.Add(time.Minute))

	n, err := store.CloseDangling("context_done", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("CloseDangling() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 dangling run, got %d", n)
	}
	run, _ := store.GetRun("open")
	if run.EndReason != "context_done" {
		t.Errorf("unexpected reason %q", run.EndReason)
	}
}

package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}
	if !d.Pending() {
		t.Error("expected a pending callback")
	}
	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
	if d.Pending() {
		t.Error("expected nothing pending after the callback ran")
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("cancelled callback ran %d times", got)
	}
}

func TestDebouncerDefaultDuration(t *testing.T) {
	if got := NewDebouncer(0).Duration(); got != DefaultDebounceDuration {
		t.Errorf("Duration() = %v, want %v", got, DefaultDebounceDuration)
	}
}

func TestNewRequiresExistingFile(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope.yaml"), func() {}); err == nil {
		t.Error("expected error for missing file")
	}
}

func runWatcher(t *testing.T, forcePoll bool) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := os.WriteFile(path, []byte("items: []\n"), 0644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan struct{}, 4)
	opts := []Option{WithDebounce(20 * time.Millisecond), WithPollInterval(10 * time.Millisecond)}
	if forcePoll {
		opts = append(opts, WithPolling())
	}
	w, err := New(path, func() { changed <- struct{}{} }, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run returned %v", err)
		}
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("items:\n  - title: changed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change callback")
	}
	if forcePoll && !w.Polling() {
		t.Error("expected watcher to report polling")
	}
}

func TestWatcherNotify(t *testing.T) { runWatcher(t, false) }

func TestWatcherPolling(t *testing.T) { runWatcher(t, true) }

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.yaml")
	if err := os.WriteFile(path, []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	w, err := New(path, func() { calls.Add(1) }, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "other.md"), []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done

	if w.Polling() {
		t.Skip("fsnotify unavailable; sibling filtering not exercised")
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("sibling write triggered %d callbacks", got)
	}
}

package queue

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingStore struct {
	mu      sync.Mutex
	removed []string
	fail    bool
	done    chan struct{}
}

func newRecordingStore(fail bool) *recordingStore {
	return &recordingStore{fail: fail, done: make(chan struct{}, 16)}
}

func (s *recordingStore) Save(string, io.Reader) (string, error) {
	return "", errors.New("not implemented")
}

func (s *recordingStore) Remove(relPath string) error {
	s.mu.Lock()
	s.removed = append(s.removed, relPath)
	s.mu.Unlock()
	s.done <- struct{}{}
	if s.fail {
		return errors.New("disk error")
	}
	return nil
}

func (s *recordingStore) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.removed...)
}

func waitFor(t *testing.T, ch chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %d cleanup calls", n)
		}
	}
}

func TestCleaner_RemovesEnqueuedPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newRecordingStore(false)
	cleaner := NewCleaner(2, store, zerolog.Nop())
	cleaner.Start(ctx)

	cleaner.Clear("images/a.png")
	cleaner.Clear("images/b.png")
	waitFor(t, store.done, 2)

	got := store.paths()
	seen := make(map[string]bool, len(got))
	for _, p := range got {
		seen[p] = true
	}
	if !seen["images/a.png"] || !seen["images/b.png"] {
		t.Fatalf("expected both paths removed, got %v", got)
	}
}

func TestCleaner_FailuresAreSwallowed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newRecordingStore(true)
	cleaner := NewCleaner(1, store, zerolog.Nop())
	cleaner.Start(ctx)

	// a failing removal must not affect later requests
	cleaner.Clear("images/bad.png")
	cleaner.Clear("images/also.png")
	waitFor(t, store.done, 2)

	if got := store.paths(); len(got) != 2 {
		t.Fatalf("expected both attempts despite failure, got %v", got)
	}
}

func TestCleaner_SameShardForSamePath(t *testing.T) {
	cleaner := NewCleaner(4, newRecordingStore(false), zerolog.Nop())

	first := cleaner.shardIndex("images/same.png")
	for i := 0; i < 10; i++ {
		if cleaner.shardIndex("images/same.png") != first {
			t.Fatalf("shard index not deterministic")
		}
	}
}

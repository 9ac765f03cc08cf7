// Kitabu - Literary Catalog Recommendation and Semantic Search
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kitabu

package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/kitabu/internal/catalog"
	"github.com/tomtom215/kitabu/internal/models"
	"github.com/tomtom215/kitabu/internal/recommend"
)

type fakeRebuilder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeRebuilder) Rebuild(context.Context) (*recommend.RetrievalContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	cat, _ := catalog.New([]models.Book{{ID: "1", Title: "Coming to Birth"}})
	return &recommend.RetrievalContext{Catalog: cat}, nil
}

func (f *fakeRebuilder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// sequence returns fingerprints from a mutable value.
type sequence struct {
	mu  sync.Mutex
	val string
	err error
}

func (s *sequence) set(v string, err error) {
	s.mu.Lock()
	s.val, s.err = v, err
	s.mu.Unlock()
}

func (s *sequence) get() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.val, s.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCatalogWatcher(t *testing.T) {
	t.Parallel()

	engine := &fakeRebuilder{}
	fp := &sequence{val: "v1"}
	w := NewCatalogWatcher(engine, fp.get, CatalogWatcherConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	// Unchanged catalog: no rebuild.
	time.Sleep(50 * time.Millisecond)
	if engine.Calls() != 0 {
		t.Fatalf("rebuilt %d times without a change", engine.Calls())
	}

	fp.set("v2", nil)
	waitFor(t, func() bool { return engine.Calls() == 1 })

	// One rebuild per change.
	time.Sleep(50 * time.Millisecond)
	if engine.Calls() != 1 {
		t.Errorf("rebuilt %d times for one change", engine.Calls())
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
}

func TestCatalogWatcher_EditDuringInitialBuild(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte("id,title\n1,Kintu\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fp := FileFingerprint(path)
	baseline, err := fp()
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}

	// The catalog changes after the baseline, while the first index builds.
	later := time.Now().Add(time.Hour)
	if err := os.WriteFile(path, []byte("id,title\n1,Kintu\n2,The First Woman\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	engine := &fakeRebuilder{}
	w := NewCatalogWatcher(engine, fp, CatalogWatcherConfig{Interval: 10 * time.Millisecond, Baseline: baseline}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	waitFor(t, func() bool { return engine.Calls() == 1 })
}

func TestCatalogWatcher_RetriesFailedRebuild(t *testing.T) {
	t.Parallel()

	engine := &fakeRebuilder{err: errors.New("catalog half written")}
	fp := &sequence{val: "v2"}
	w := NewCatalogWatcher(engine, fp.get, CatalogWatcherConfig{}, zerolog.Nop())
	w.last = "v1"

	w.check(context.Background())
	w.check(context.Background())
	if engine.Calls() != 2 || w.last != "v1" {
		t.Fatalf("calls = %d, last = %q", engine.Calls(), w.last)
	}

	engine.mu.Lock()
	engine.err = nil
	engine.mu.Unlock()
	w.check(context.Background())
	w.check(context.Background())
	if engine.Calls() != 3 || w.last != "v2" {
		t.Errorf("calls = %d, last = %q", engine.Calls(), w.last)
	}
}

func TestCatalogWatcher_FingerprintError(t *testing.T) {
	t.Parallel()

	engine := &fakeRebuilder{}
	fp := &sequence{err: os.ErrNotExist}
	w := NewCatalogWatcher(engine, fp.get, CatalogWatcherConfig{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	time.Sleep(40 * time.Millisecond)
	if engine.Calls() != 0 {
		t.Fatal("rebuilt while the catalog was unreadable")
	}

	// Readable again after a failed start counts as a change.
	fp.set("v1", nil)
	waitFor(t, func() bool { return engine.Calls() == 1 })
}

func TestFileFingerprint(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte("id,title\n1,Kintu\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	fp := FileFingerprint(path, "")
	first, err := fp()
	if err != nil {
		t.Fatalf("fingerprint: %v", err)
	}
	again, _ := fp()
	if first != again {
		t.Error("fingerprint changed without a write")
	}

	if err := os.WriteFile(path, []byte("id,title\n1,Kintu\n2,Dust\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	changed, _ := fp()
	if changed == first {
		t.Error("fingerprint did not change after a write")
	}

	if _, err := FileFingerprint(filepath.Join(t.TempDir(), "missing.csv"))(); err == nil {
		t.Error("missing file should fail")
	}
}

func TestNewCatalogWatcher_Defaults(t *testing.T) {
	t.Parallel()
	w := NewCatalogWatcher(&fakeRebuilder{}, FileFingerprint(), CatalogWatcherConfig{}, zerolog.Nop())
	if w.config.Interval != time.Minute || w.config.RebuildTimeout != 30*time.Minute || w.String() != "catalog-watcher" {
		t.Errorf("watcher = %+v", w.config)
	}
}

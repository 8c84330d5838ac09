// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// runWatcher starts w and returns a stop function that cancels it and
// fails the test if Run returned an error.
func runWatcher(t *testing.T, w *Watcher) (stop func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// Let the event loop start before the test writes files.
	time.Sleep(50 * time.Millisecond)

	return func() {
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Run() error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Run() did not return after cancel")
		}
	}
}

func TestWatcher_Debounce(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	pkg := filepath.Join(root, "packages")
	if err := os.Mkdir(pkg, 0o755); err != nil {
		t.Fatal(err)
	}

	var (
		mu        sync.Mutex
		calls     int
		collected []string
	)
	done := make(chan struct{})

	w, err := New(Config{
		Dirs:     []string{pkg, root},
		Patterns: []string{"package.json"},
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			collected = append(collected, changed...)
			if calls == 1 {
				close(done)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)

	writeFile(t, filepath.Join(root, "package.json"), `{"dependencies":{"vue":"^2.6.0"}}`)
	time.Sleep(10 * time.Millisecond)
	writeFile(t, filepath.Join(pkg, "package.json"), `{"dependencies":{"vue":"^3.0.1"}}`)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(250 * time.Millisecond)
	stop()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("got %d callbacks, want 1", calls)
	}
	for _, want := range []string{filepath.Join(root, "package.json"), filepath.Join(pkg, "package.json")} {
		if !slices.Contains(collected, want) {
			t.Errorf("changed set %v is missing %s", collected, want)
		}
	}
	if !slices.IsSorted(collected) {
		t.Errorf("changed set %v is not sorted", collected)
	}
}

func TestWatcher_FiltersByBaseName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 10)

	w, err := New(Config{
		Dirs:     []string{dir},
		Patterns: []string{"package.json", "*.cue"},
		Ignore:   []string{"scratch.cue"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)
	defer stop()

	writeFile(t, filepath.Join(dir, "README.md"), "docs")
	writeFile(t, filepath.Join(dir, "scratch.cue"), "x: 1")
	writeFile(t, filepath.Join(dir, "package.json.swp"), "swap")
	time.Sleep(200 * time.Millisecond)

	select {
	case changed := <-fired:
		t.Fatalf("callback fired for unmatched files: %v", changed)
	default:
	}

	cfgPath := filepath.Join(dir, "lintcfg.cue")
	writeFile(t, cfgPath, `preset: format: "yaml"`)

	select {
	case changed := <-fired:
		if !slices.Equal(changed, []string{cfgPath}) {
			t.Errorf("changed = %v, want [%s]", changed, cfgPath)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcher_NotRecursive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	nested := filepath.Join(dir, "node_modules", "vue")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	fired := make(chan []string, 10)

	w, err := New(Config{
		Dirs:     []string{dir},
		Patterns: []string{"package.json"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)
	defer stop()

	writeFile(t, filepath.Join(nested, "package.json"), `{"version":"3.4.0"}`)
	time.Sleep(200 * time.Millisecond)

	select {
	case changed := <-fired:
		t.Errorf("callback fired for a nested directory: %v", changed)
	default:
	}
}

func TestWatcher_CallbackErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan struct{}, 10)

	w, err := New(Config{
		Dirs:     []string{dir},
		Debounce: 30 * time.Millisecond,
		OnChange: func(context.Context, []string) error {
			fired <- struct{}{}
			return errors.New("render failed")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := runWatcher(t, w)
	defer stop()

	for i := range 2 {
		writeFile(t, filepath.Join(dir, "package.json"), "{}")
		select {
		case <-fired:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for callback %d", i+1)
		}
	}
}

func TestNew_Dirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "package.json")
	writeFile(t, file, "{}")

	w, err := New(Config{Dirs: []string{dir, filepath.Join(dir, "missing"), file, dir}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = w.fsw.Close() })

	if got := w.Dirs(); !slices.Equal(got, []string{dir}) {
		t.Errorf("Dirs() = %v, want [%s]", got, dir)
	}
}

func TestNew_NothingToWatch(t *testing.T) {
	t.Parallel()

	_, err := New(Config{Dirs: []string{filepath.Join(t.TempDir(), "missing")}})
	if !errors.Is(err, ErrNothingToWatch) {
		t.Errorf("New() error = %v, want ErrNothingToWatch", err)
	}
}

func TestRun_Twice(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Dirs: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := w.Run(ctx); err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if err := w.Run(ctx); err == nil {
		t.Error("second Run() returned nil, want error")
	}
}

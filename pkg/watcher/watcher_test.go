package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeBundle(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewDefaults(t *testing.T) {
	w, err := New("bundle.json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if w.debounceDuration != DefaultDebounceDuration {
		t.Errorf("debounce = %v, want %v", w.debounceDuration, DefaultDebounceDuration)
	}
	if w.pollInterval != DefaultPollInterval {
		t.Errorf("poll interval = %v, want %v", w.pollInterval, DefaultPollInterval)
	}
	if !filepath.IsAbs(w.Path()) {
		t.Errorf("path not absolute: %q", w.Path())
	}
}

func TestStartTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, "{}")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := w.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestStopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, "{}")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
	if w.IsStarted() {
		t.Error("still started after Stop")
	}
}

func TestDetectsRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, `{"version": 1}`)

	var calls atomic.Int32
	w, err := New(path,
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { calls.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeBundle(t, path, `{"version": 2}`)

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("change never reported")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestChangedChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, `{"version": 1}`)

	w, err := New(path, WithDebounceDuration(20*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeBundle(t, path, `{"version": 2}`)

	select {
	case <-w.Changed():
	case <-time.After(2 * time.Second):
		t.Fatal("no receive on Changed channel")
	}
}

func TestDebounceCoalescesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, "a")

	var calls atomic.Int32
	w, err := New(path,
		WithDebounceDuration(150*time.Millisecond),
		WithOnChange(func() { calls.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 5; i++ {
		writeBundle(t, path, string(rune('b'+i)))
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("onChange called %d times for a burst, want 1", got)
	}
}

func TestForcedPollingMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, `{"version": 1}`)

	var calls atomic.Int32
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(30*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { calls.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	// ModTime granularity can be a full second on some filesystems, so
	// change the size too.
	time.Sleep(50 * time.Millisecond)
	writeBundle(t, path, `{"version": 2, "extra": true}`)

	deadline := time.After(3 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("polling never detected the change")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestPollingReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, "{}")

	errCh := make(chan error, 4)
	w, err := New(path,
		WithForcePoll(true),
		WithPollInterval(30*time.Millisecond),
		WithOnError(func(e error) {
			select {
			case errCh <- e:
			default:
			}
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-errCh:
		if !errors.Is(e, ErrBundleRemoved) {
			t.Errorf("error = %v, want ErrBundleRemoved", e)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("removal never reported")
	}
}

func TestMissingBundleStarts(t *testing.T) {
	// Watching a path that does not exist yet is allowed; the change
	// fires once the pipeline writes the bundle.
	dir := t.TempDir()
	path := filepath.Join(dir, "pending.json")

	var calls atomic.Int32
	w, err := New(path,
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { calls.Add(1) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start on missing file: %v", err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	writeBundle(t, path, "{}")

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("creation never reported")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestEnvForcesPolling(t *testing.T) {
	t.Setenv("PM_FORCE_POLL", "1")

	path := filepath.Join(t.TempDir(), "bundle.json")
	writeBundle(t, path, "{}")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Error("PM_FORCE_POLL did not force polling mode")
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{" on ", true},
		{"0", false},
		{"", false},
		{"nope", false},
	}
	for _, tt := range tests {
		t.Setenv("PM_TEST_FLAG", tt.val)
		if got := envBool("PM_TEST_FLAG"); got != tt.want {
			t.Errorf("envBool(%q) = %v, want %v", tt.val, got, tt.want)
		}
	}
}

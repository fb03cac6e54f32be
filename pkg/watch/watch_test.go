package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitCall(t *testing.T, calls <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestRunRerunsOnWrite(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.toml")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(scene, []byte("width = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{scene}, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			calls <- struct{}{}
			return errors.New("errors are logged, not fatal")
		})
	}()

	waitCall(t, calls, "initial run")

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(scene, []byte("width = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitCall(t, calls, "rerun after write")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil on cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAddSharesDirectory(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "a.toml"), filepath.Join(dir, "b.obj")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if len(w.files) != 2 || len(w.dirs) != 1 {
		t.Errorf("watching %d files in %d dirs, want 2 in 1", len(w.files), len(w.dirs))
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing", "scene.toml")})
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestNilLoggerKeepsDefault(t *testing.T) {
	scene := filepath.Join(t.TempDir(), "scene.toml")
	w, err := New([]string{scene}, WithLogger(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// both the success and failure paths log
	for _, fail := range []bool{false, true} {
		err := w.Run(ctx, func(context.Context) error {
			cancel()
			if fail {
				return errors.New("bad scene")
			}
			return nil
		})
		if err != nil {
			t.Errorf("Run = %v, want nil", err)
		}
	}
}

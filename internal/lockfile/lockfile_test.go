package lockfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakepi.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("lock file missing after Acquire: %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("lock file still present after Release: %v", err)
	}
}

func TestAcquireHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakepi.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	if _, err := Acquire(path); err != ErrHeld {
		t.Fatalf("second Acquire = %v, want ErrHeld", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakepi.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestReacquireAfterRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakepi.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	lock2, err := Acquire(path)
	if err != nil {
		t.Fatalf("re-Acquire after Release: %v", err)
	}
	lock2.Release()
}

func TestOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakepi.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	pid, err := Owner(path)
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if pid != os.Getpid() {
		t.Errorf("Owner = %d, want %d", pid, os.Getpid())
	}
}

func TestOwnerGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakepi.lock")
	if err := os.WriteFile(path, []byte("not a pid"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Owner(path); err == nil {
		t.Error("expected error for garbage lock file")
	}
}

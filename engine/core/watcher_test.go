package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resin.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changes := make(chan Config, 16)
	w, err := WatchConfig(path, func(cfg Config) {
		changes <- cfg
	})
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	defer w.Close()

	// unrelated files in the same directory are ignored
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			// a write can be split into several events, wait for the full content
			if cfg.Log.Level == "warn" {
				return
			}
		case <-timeout:
			t.Fatal("no reload observed")
		}
	}
}

func TestConfigWatcherCloseTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resin.toml")
	w, err := WatchConfig(path, nil)
	if err != nil {
		t.Fatalf("WatchConfig: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("second Close=%v; expected ErrWatcherClosed", err)
	}
}

// Package internal provides tests for the configx sources.
package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEnvSource_PrefixAndDotKeys(t *testing.T) {
	t.Setenv("EMBERTEST_SERVER_PORT", "9090")
	t.Setenv("EMBERTEST_SERVER_HOST", "localhost")
	t.Setenv("UNRELATED_VAR", "x")

	src := NewEnvSource(EnvOptions{Prefix: "EMBERTEST_", DotKeys: true})
	config, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config["server.port"] != "9090" {
		t.Errorf("server.port = %q, want 9090", config["server.port"])
	}
	if config["server.host"] != "localhost" {
		t.Errorf("server.host = %q, want localhost", config["server.host"])
	}
	if _, ok := config["unrelated.var"]; ok {
		t.Error("variables outside the prefix must be filtered out")
	}
}

func TestEnvSource_RawKeys(t *testing.T) {
	t.Setenv("EMBERTEST_RAW", "value")

	src := NewEnvSource(EnvOptions{})
	config, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config["EMBERTEST_RAW"] != "value" {
		t.Errorf("EMBERTEST_RAW = %q, keys should be untouched without DotKeys", config["EMBERTEST_RAW"])
	}
}

func TestMapSource_LoadIsCopy(t *testing.T) {
	original := map[string]string{"k": "v"}
	src := NewMapSource(original)

	config, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	config["k"] = "mutated"

	again, _ := src.Load(context.Background())
	if again["k"] != "v" {
		t.Errorf("source values mutated through loaded copy: %q", again["k"])
	}

	// Mutating the caller's map after construction must not leak in either.
	original["k"] = "changed"
	final, _ := src.Load(context.Background())
	if final["k"] != "v" {
		t.Errorf("source aliased the caller's map: %q", final["k"])
	}
}

func TestFileSource_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
app:
  name: ember
  server:
    port: 8080
  hosts:
    - a.example.com
    - b.example.com
  debug: true
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path, FileOptions{})
	config, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config["app.name"] != "ember" {
		t.Errorf("app.name = %q, want ember", config["app.name"])
	}
	if config["app.server.port"] != "8080" {
		t.Errorf("app.server.port = %q, want 8080", config["app.server.port"])
	}
	if config["app.hosts"] != "a.example.com,b.example.com" {
		t.Errorf("app.hosts = %q, lists should flatten to comma-separated", config["app.hosts"])
	}
	if config["app.debug"] != "true" {
		t.Errorf("app.debug = %q, want true", config["app.debug"])
	}
}

func TestFileSource_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	content := []byte(`{"db": {"url": "postgres://x", "pool": {"max-open": 50}}}`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path, FileOptions{})
	config, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config["db.url"] != "postgres://x" {
		t.Errorf("db.url = %q", config["db.url"])
	}
	if config["db.pool.max-open"] != "50" {
		t.Errorf("db.pool.max-open = %q, want 50", config["db.pool.max-open"])
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml"), FileOptions{})

	config, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, missing file should yield empty snapshot", err)
	}
	if len(config) != 0 {
		t.Errorf("config = %v, want empty", config)
	}
}

func TestFileSource_InvalidContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFileSource(path, FileOptions{})
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Load() should fail on malformed content")
	}
}

func TestFileSource_WatchEmitsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  name: v1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewFileSource(path, FileOptions{Watch: true})
	ch, err := src.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("app:\n  name: v2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case snapshot := <-ch:
		if snapshot["app.name"] != "v2" {
			t.Errorf("snapshot app.name = %q, want v2", snapshot["app.name"])
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for file change event")
	}
}

func TestFileSource_WatchDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	src := NewFileSource("whatever.yaml", FileOptions{})
	ch, err := src.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("disabled watch should never emit")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel should close after context cancellation")
	}
}

func TestDetectFileFormat(t *testing.T) {
	if got := detectFileFormat("a/b/config.yml"); got != "yaml" {
		t.Errorf("detectFileFormat(.yml) = %q, want yaml", got)
	}
	if got := detectFileFormat("config.json"); got != "json" {
		t.Errorf("detectFileFormat(.json) = %q, want json", got)
	}
	if got := detectFileFormat("config"); got != "json" {
		t.Errorf("detectFileFormat(no ext) = %q, want json default", got)
	}
}

package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"itube-transcoder/workspace"
)

func TestAcquireCreatesDirectories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	ws, err := workspace.Acquire(root)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if ws.InputFile != filepath.Join(root, "input.mp4") {
		t.Errorf("unexpected input file path %q", ws.InputFile)
	}
	info, err := os.Stat(ws.OutputDir)
	if err != nil {
		t.Fatalf("stat output dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("output path %q is not a directory", ws.OutputDir)
	}
}

func TestAcquireIsIdempotent(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	if _, err := workspace.Acquire(root); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if _, err := workspace.Acquire(root); err != nil {
		t.Fatalf("second acquire on existing directories: %v", err)
	}
}

func TestReleaseRemovesInputAndOutput(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	ws, err := workspace.Acquire(root)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if err := os.WriteFile(ws.InputFile, []byte("source"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	segment := filepath.Join(ws.OutputDir, "0", "segment_000.ts")
	if err := os.MkdirAll(filepath.Dir(segment), 0o755); err != nil {
		t.Fatalf("mkdir rung dir: %v", err)
	}
	if err := os.WriteFile(segment, []byte("data"), 0o644); err != nil {
		t.Fatalf("write segment: %v", err)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}

	if _, err := os.Stat(ws.InputFile); !os.IsNotExist(err) {
		t.Errorf("input file still present after release")
	}
	if _, err := os.Stat(ws.OutputDir); !os.IsNotExist(err) {
		t.Errorf("output directory still present after release")
	}
}

func TestReleaseIsNoOpWhenPathsMissing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")
	ws, err := workspace.Acquire(root)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := ws.Release(); err != nil {
		t.Fatalf("release with nothing to delete: %v", err)
	}
}

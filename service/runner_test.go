package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"itube-transcoder/service"
)

func writeStubEncoder(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("write stub encoder: %v", err)
	}
	return path
}

func TestRunnerCapturesOutputOnSuccess(t *testing.T) {
	stub := writeStubEncoder(t, "echo frame=100\necho progressing >&2\nexit 0\n")

	result, err := service.NewRunner().Run(context.Background(), []string{stub, "-i", "input.mp4"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d", result.ExitCode)
	}
	if result.Stdout != "frame=100\n" {
		t.Errorf("stdout = %q", result.Stdout)
	}
	if result.Stderr != "progressing\n" {
		t.Errorf("stderr = %q", result.Stderr)
	}
}

func TestRunnerNonZeroExitYieldsTranscodingError(t *testing.T) {
	stub := writeStubEncoder(t, "echo partial output\necho 'Invalid data found' >&2\nexit 1\n")

	_, err := service.NewRunner().Run(context.Background(), []string{stub})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	var transcodeErr *service.TranscodingError
	if !errors.As(err, &transcodeErr) {
		t.Fatalf("error type %T, want *service.TranscodingError", err)
	}
	if transcodeErr.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", transcodeErr.ExitCode)
	}
	if transcodeErr.Stdout != "partial output\n" {
		t.Errorf("stdout = %q", transcodeErr.Stdout)
	}
	if transcodeErr.Stderr != "Invalid data found\n" {
		t.Errorf("stderr = %q", transcodeErr.Stderr)
	}
}

func TestRunnerPreservesExactExitCode(t *testing.T) {
	stub := writeStubEncoder(t, "exit 69\n")

	_, err := service.NewRunner().Run(context.Background(), []string{stub})
	var transcodeErr *service.TranscodingError
	if !errors.As(err, &transcodeErr) {
		t.Fatalf("error type %T", err)
	}
	if transcodeErr.ExitCode != 69 {
		t.Errorf("exit code = %d, want 69", transcodeErr.ExitCode)
	}
}

func TestRunnerMissingBinaryIsNotTranscodingError(t *testing.T) {
	_, err := service.NewRunner().Run(context.Background(), []string{filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var transcodeErr *service.TranscodingError
	if errors.As(err, &transcodeErr) {
		t.Fatalf("start failure misclassified as encoder exit: %v", err)
	}
}

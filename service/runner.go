package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/rs/zerolog"
)

// ProcessResult captures the outcome of one encoder invocation.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// TranscodingError is returned when the encoder exits non-zero. It keeps the
// full captured output for inspection; callers truncate before logging.
type TranscodingError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *TranscodingError) Error() string {
	return fmt.Sprintf("ffmpeg failed with exit code %d", e.ExitCode)
}

// Runner executes a prepared encoder command and waits for it to finish.
type Runner interface {
	Run(ctx context.Context, command []string) (ProcessResult, error)
}

type execRunner struct{}

func NewRunner() Runner {
	return execRunner{}
}

// Run blocks until the process exits. A zero exit code is the only success
// criterion; output files are not inspected here.
func (execRunner) Run(ctx context.Context, command []string) (ProcessResult, error) {
	if len(command) == 0 {
		return ProcessResult{}, errors.New("empty encoder command")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	zerolog.Ctx(ctx).Debug().Strs("command", command).Msg("starting encoder process")
	err := cmd.Run()

	result := ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, &TranscodingError{
				ExitCode: exitErr.ExitCode(),
				Stdout:   result.Stdout,
				Stderr:   result.Stderr,
			}
		}
		return result, fmt.Errorf("run encoder: %w", err)
	}

	return result, nil
}

package mermaid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ExecResult captures a finished subprocess: output streams and exit code.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor runs a command with captured output and a bounded timeout.
// A non-zero exit code is a result, not an error; errors mean the process
// could not run or was killed by the timeout.
type Executor interface {
	Run(parts []string, timeout time.Duration) (ExecResult, error)
}

// osExecutor executes commands via os/exec. Arguments are passed as a
// discrete list, never concatenated into a shell string. Windows is the
// exception: executable resolution (mmdc.cmd via PATHEXT) requires an
// intermediate "cmd /c" wrapper. Even there the command is handed to the
// wrapper as one opaque string, not shell-interpreted by us.
type osExecutor struct{}

// NewExecutor returns the platform Executor.
func NewExecutor() Executor {
	return osExecutor{}
}

func (osExecutor) Run(parts []string, timeout time.Duration) (ExecResult, error) {
	if len(parts) == 0 {
		return ExecResult{}, errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/c", strings.Join(parts, " "))
	} else {
		cmd = exec.CommandContext(ctx, parts[0], parts[1:]...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return ExecResult{}, fmt.Errorf("command timed out after %s: %w", timeout, context.DeadlineExceeded)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return ExecResult{
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitErr.ExitCode(),
			}, nil
		}
		// Missing executable or OS-level failure.
		return ExecResult{}, err
	}

	return ExecResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: 0}, nil
}

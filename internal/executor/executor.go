// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/specialistvlad/buildchain/internal/ctxlog"
)

// DefaultTailLines is the number of output lines kept for failure summaries.
const DefaultTailLines = 20

// Result describes one finished command.
type Result struct {
	Command  string
	Dir      string
	ExitCode int
	Duration time.Duration
	// Tail holds the last output lines of both streams, oldest first.
	Tail []string
}

// Executor runs commands through a shell.
type Executor struct {
	shell     string
	shellArgs []string
	env       []string
	tailLines int
	level     slog.Level
	waitDelay time.Duration
}

// Option configures an Executor.
type Option func(*Executor)

// WithShell replaces the default "sh -c".
func WithShell(shell string, args ...string) Option {
	return func(e *Executor) {
		e.shell = shell
		e.shellArgs = args
	}
}

// WithEnv adds environment variables on top of the current process environment.
func WithEnv(env ...string) Option {
	return func(e *Executor) { e.env = append(e.env, env...) }
}

// WithTailLines sets how many output lines are kept for the result.
func WithTailLines(n int) Option {
	return func(e *Executor) { e.tailLines = n }
}

// WithOutputLevel sets the log level used for process output.
func WithOutputLevel(level slog.Level) Option {
	return func(e *Executor) { e.level = level }
}

// New returns an Executor running commands with "sh -c".
func New(opts ...Option) *Executor {
	e := &Executor{
		shell:     "sh",
		shellArgs: []string{"-c"},
		tailLines: DefaultTailLines,
		level:     slog.LevelInfo,
		waitDelay: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs command in dir and waits for it to finish. An empty command
// succeeds without starting a process. Cancelling ctx kills the process.
func (e *Executor) Execute(ctx context.Context, dir, command string) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	res := Result{Command: command, Dir: dir}

	if strings.TrimSpace(command) == "" {
		logger.Debug("Empty command, nothing to run.")
		return res, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return res, &StartError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return res, &StartError{Dir: dir, Err: fmt.Errorf("%s is not a directory", dir)}
	}

	t := &tail{n: e.tailLines}
	stdout := newLineWriter(ctx, "stdout", e.level, t)
	stderr := newLineWriter(ctx, "stderr", e.level, t)

	args := append(append([]string{}, e.shellArgs...), command)
	cmd := exec.CommandContext(ctx, e.shell, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), e.env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = e.waitDelay

	logger.Info("Running command.", "command", command, "dir", dir)
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return res, &StartError{Dir: dir, Err: err}
	}
	err = cmd.Wait()
	res.Duration = time.Since(start)
	stdout.Flush()
	stderr.Flush()
	res.Tail = t.snapshot()

	if err == nil {
		logger.Debug("Command finished.", "duration", res.Duration)
		return res, nil
	}

	var exitErr *exec.ExitError
	isExit := errors.As(err, &exitErr)
	res.ExitCode = -1
	if isExit {
		res.ExitCode = exitErr.ExitCode()
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("command interrupted: %w", ctx.Err())
	}
	if !isExit {
		return res, &StartError{Dir: dir, Err: err}
	}
	failure := &ExitError{Code: res.ExitCode}
	switch res.ExitCode {
	case 126, 127:
		return res, &StartError{Dir: dir, Err: failure}
	}
	return res, failure
}

// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/macfp/macfp/pkg/defaults"
	"github.com/macfp/macfp/pkg/errors"
	"golang.org/x/time/rate"
)

// dangerousChars are rejected in arguments of every command except those in shellSafe.
const dangerousChars = "|&;><`$()"

// shellSafe lists commands whose arguments may contain dangerousChars.
var shellSafe = map[string]bool{
	"osascript": true,
}

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = time.Second

// Runner executes an external command and returns its trimmed stdout.
// On timeout, implementations return the output captured so far together
// with an ErrCodeTimeout error.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithRateLimit throttles command starts to perSecond with the given burst.
// A non-positive rate disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(e *Executor) {
		if perSecond <= 0 {
			e.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// Executor is the production Runner backed by os/exec.
type Executor struct {
	timeout time.Duration
	limiter *rate.Limiter
}

// NewExecutor creates an Executor with the default timeout and no rate limit.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{timeout: defaults.CommandTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the per-invocation timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Validate checks a command and its arguments before execution.
func Validate(name string, args ...string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "command cannot be empty")
	}
	if shellSafe[name] {
		return nil
	}
	for _, arg := range append([]string{name}, args...) {
		if strings.ContainsAny(arg, dangerousChars) {
			return errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"command contains dangerous characters",
				map[string]any{"command": name, "argument": arg})
		}
	}
	return nil
}

// Run validates and executes the command, returning stdout with surrounding
// whitespace removed. When the timeout fires the partial stdout is returned
// alongside the error so never-ending commands like dns-sd can be sampled.
func (e *Executor) Run(ctx context.Context, name string, args ...string) (string, error) {
	if err := Validate(name, args...); err != nil {
		slog.Warn("command validation failed", slog.String("command", name), slog.String("error", err.Error()))
		return "", err
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(errors.ErrCodeTimeout, "rate limiter wait aborted", err)
		}
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeUnavailable, fmt.Sprintf("%s not found in PATH", name), err)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err = cmd.Run()
	slog.Debug("command finished",
		slog.String("command", name),
		slog.Duration("duration", time.Since(start)))

	if err != nil {
		if stderrors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return strings.TrimSpace(stdout.String()), errors.WrapWithContext(errors.ErrCodeTimeout, "command timed out", err,
				map[string]any{"command": name, "timeout": e.timeout.String()})
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", errors.Wrap(errors.ErrCodeTimeout, "command canceled", ctxErr)
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return "", errors.WrapWithContext(errors.ErrCodeInternal,
				fmt.Sprintf("%s exited with status %d", name, exitErr.ExitCode()), err,
				map[string]any{"stderr": strings.TrimSpace(stderr.String())})
		}
		return "", errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to run %s", name), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Lines splits command output into non-empty lines with trailing whitespace removed.
func Lines(out string) []string {
	if out == "" {
		return []string{}
	}
	parts := strings.Split(out, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimRight(p, " \t\r")
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}

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
	"context"
	"errors"
	"testing"
	"time"

	macerrors "github.com/macfp/macfp/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     string
		args    []string
		wantErr bool
	}{
		{"plain", "ls", []string{"-la", "/Applications"}, false},
		{"empty", "", nil, true},
		{"pipe", "ls", []string{"/tmp | rm"}, true},
		{"semicolon", "echo", []string{"a;b"}, true},
		{"subshell", "echo", []string{"$(whoami)"}, true},
		{"backtick", "echo", []string{"`id`"}, true},
		{"redirect", "cat", []string{">out"}, true},
		{"osascript allowed", "osascript", []string{"-e", `tell application "System Events" to get the name of every login item`}, false},
		{"osascript parens allowed", "osascript", []string{"-e", "return (1 + 1)"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cmd, tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeInvalidRequest))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestExecutorRun(t *testing.T) {
	e := NewExecutor()
	out, err := e.Run(context.Background(), "echo", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestExecutorMissingBinary(t *testing.T) {
	e := NewExecutor()
	_, err := e.Run(context.Background(), "macfp-definitely-not-installed")
	require.Error(t, err)
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeUnavailable))
}

func TestExecutorNonZeroExit(t *testing.T) {
	e := NewExecutor()
	_, err := e.Run(context.Background(), "false")
	require.Error(t, err)
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeInternal))
}

func TestExecutorTimeout(t *testing.T) {
	e := NewExecutor(WithTimeout(50 * time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, e.Timeout())

	start := time.Now()
	_, err := e.Run(context.Background(), "sleep", "5")
	require.Error(t, err)
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeTimeout))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecutorRejectsBeforeRunning(t *testing.T) {
	e := NewExecutor()
	_, err := e.Run(context.Background(), "echo", "a && b")
	require.Error(t, err)
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeInvalidRequest))
}

func TestExecutorRateLimitCanceled(t *testing.T) {
	e := NewExecutor(WithRateLimit(0.001, 1))
	_, err := e.Run(context.Background(), "true")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = e.Run(ctx, "true")
	require.Error(t, err)
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeTimeout))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{}, Lines(""))
	assert.Equal(t, []string{"a", "  b", "c"}, Lines("a\n  b  \n\n\t\nc\r\n"))
}

func TestFake(t *testing.T) {
	f := NewFake().
		Set("sw_vers", "ProductName: macOS\n").
		Fail("csrutil status", errors.New("exit status 1"))

	out, err := f.Run(context.Background(), "sw_vers")
	require.NoError(t, err)
	assert.Equal(t, "ProductName: macOS", out)

	_, err = f.Run(context.Background(), "csrutil", "status")
	assert.EqualError(t, err, "exit status 1")

	_, err = f.Run(context.Background(), "brew", "list")
	assert.Error(t, err)

	assert.Equal(t, []string{"sw_vers", "csrutil status", "brew list"}, f.Calls())
}

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
	"fmt"
	"strings"
	"sync"

	"github.com/macfp/macfp/pkg/errors"
)

// Fake is an in-memory Runner returning canned output keyed by the full command line.
type Fake struct {
	mu       sync.Mutex
	outputs  map[string]string
	errs     map[string]error
	timeouts map[string]string
	calls    []string
}

// NewFake creates an empty Fake runner.
func NewFake() *Fake {
	return &Fake{
		outputs:  make(map[string]string),
		errs:     make(map[string]error),
		timeouts: make(map[string]string),
	}
}

// Set registers output for the command line "name arg1 arg2".
func (f *Fake) Set(cmdline, output string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[cmdline] = output
	return f
}

// Fail registers an error for the command line.
func (f *Fake) Fail(cmdline string, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[cmdline] = err
	return f
}

// Timeout makes the command line time out after producing partial output.
func (f *Fake) Timeout(cmdline, partial string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeouts[cmdline] = partial
	return f
}

// Calls returns the command lines run so far.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Run implements Runner. Unregistered commands fail as if not installed.
func (f *Fake) Run(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := Validate(name, args...); err != nil {
		return "", err
	}

	cmdline := strings.Join(append([]string{name}, args...), " ")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmdline)

	if err, ok := f.errs[cmdline]; ok {
		return "", err
	}
	if partial, ok := f.timeouts[cmdline]; ok {
		return strings.TrimSpace(partial), errors.New(errors.ErrCodeTimeout, "command timed out")
	}
	if out, ok := f.outputs[cmdline]; ok {
		return strings.TrimSpace(out), nil
	}
	return "", errors.New(errors.ErrCodeUnavailable, fmt.Sprintf("%s not found in PATH", name))
}

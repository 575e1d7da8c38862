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


package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/macfp/macfp/pkg/document"
)

// Category groups collectors by the kind of host data they gather.
type Category string

// String returns the string representation of the Category.
func (c Category) String() string {
	return string(c)
}

const (
	CategoryApplications Category = "applications"
	CategorySystem       Category = "system"
	CategoryNetwork      Category = "network"
	CategorySecurity     Category = "security"
	CategoryHardware     Category = "hardware"
	CategoryUser         Category = "user"
	CategoryDeveloper    Category = "developer"
)

// Categories is the list of all supported collector categories.
var Categories = []Category{
	CategoryApplications,
	CategorySystem,
	CategoryNetwork,
	CategorySecurity,
	CategoryHardware,
	CategoryUser,
	CategoryDeveloper,
}

// ParseCategory parses a string into a Category.
// Returns the Category and true if parsing succeeds, or empty Category and false otherwise.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Collector gathers one kind of host data.
// Name must be stable: it keys the fingerprint document, the severity
// policy and the redaction rules.
type Collector interface {
	Name() string
	Category() Category
	Collect(ctx context.Context) (document.Value, error)
}

// Outcome is the result of one collector invocation.
type Outcome struct {
	Name     string
	Success  bool
	Value    document.Value
	Error    string
	Duration time.Duration
}

// Succeeded returns a successful outcome carrying v.
func Succeeded(name string, v document.Value) Outcome {
	return Outcome{Name: name, Success: true, Value: v}
}

// Failed returns a failed outcome carrying the error text.
func Failed(name string, err error) Outcome {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Outcome{Name: name, Error: msg}
}

// Document returns the value recorded in a fingerprint for this outcome:
// the collected value on success, {"error": message} otherwise.
func (o Outcome) Document() document.Value {
	if o.Success {
		return o.Value
	}
	return document.Map(map[string]document.Value{
		"error": document.Str(o.Error),
	})
}

// Run invokes c and converts every failure, including a panic, into a failed Outcome.
func Run(ctx context.Context, c Collector) (out Outcome) {
	name := c.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out = Failed(name, fmt.Errorf("collector panicked: %v", r))
		}
		out.Duration = time.Since(start)
		observeOutcome(out)
		if !out.Success {
			slog.Warn("collector failed",
				slog.String("collector", name),
				slog.String("error", out.Error))
		}
	}()

	if err := ctx.Err(); err != nil {
		return Failed(name, err)
	}

	v, err := c.Collect(ctx)
	if err != nil {
		return Failed(name, err)
	}
	return Succeeded(name, v)
}

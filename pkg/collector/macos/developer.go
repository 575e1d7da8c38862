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


package macos

import (
	"context"

	"github.com/macfp/macfp/pkg/document"
)

// HomebrewCollector lists installed formulae and casks.
type HomebrewCollector struct{ base }

// Collect implements collector.Collector.
func (c *HomebrewCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"formulas": s.lines(ctx, "brew", "list", "--formula"),
		"casks":    s.lines(ctx, "brew", "list", "--cask"),
	})
}

// PipPackagesCollector lists Python packages, preferring pip3 over pip.
type PipPackagesCollector struct{ base }

// Collect implements collector.Collector.
func (c *PipPackagesCollector) Collect(ctx context.Context) (document.Value, error) {
	lines, err := c.lines(ctx, "pip3", "list")
	if err == nil && len(lines) > 0 {
		return document.Strings(lines), nil
	}
	return linesValue(c.lines(ctx, "pip", "list"))
}

// NpmPackagesCollector lists globally installed npm packages.
type NpmPackagesCollector struct{ base }

// Collect implements collector.Collector.
func (c *NpmPackagesCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "npm", "list", "-g", "--depth=0"))
}

// XcodeCollector records the Xcode version and active developer directory.
type XcodeCollector struct{ base }

// Collect implements collector.Collector.
func (c *XcodeCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"version":       s.lines(ctx, "xcodebuild", "-version"),
		"selected_path": s.text(ctx, "xcode-select", "-p"),
	})
}

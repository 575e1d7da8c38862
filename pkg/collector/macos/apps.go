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

// InstalledAppsCollector lists application bundles in /Applications and ~/Applications.
type InstalledAppsCollector struct{ base }

// Collect implements collector.Collector.
func (c *InstalledAppsCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"system": s.lines(ctx, "ls", "-1", "/Applications"),
		"user":   s.lines(ctx, "ls", "-1", c.homePath("Applications")),
	})
}

// BrowserExtensionsCollector lists Safari, Chrome and Firefox extension directories.
type BrowserExtensionsCollector struct{ base }

// Collect implements collector.Collector.
func (c *BrowserExtensionsCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"safari":  s.lines(ctx, "ls", "-1", c.homePath("Library/Safari/Extensions")),
		"chrome":  s.lines(ctx, "ls", "-1", c.homePath("Library/Application Support/Google/Chrome/Default/Extensions")),
		"firefox": s.lines(ctx, "ls", "-1", c.homePath("Library/Application Support/Firefox/Profiles")),
	})
}

// LaunchAgentsCollector lists system and user launch agents and daemons.
type LaunchAgentsCollector struct{ base }

// Collect implements collector.Collector.
func (c *LaunchAgentsCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"system": s.lines(ctx, "ls", "-1", "/Library/LaunchAgents", "/Library/LaunchDaemons"),
		"user":   s.lines(ctx, "ls", "-1", c.homePath("Library/LaunchAgents")),
	})
}

// StartupItemsCollector lists login items via System Events.
type StartupItemsCollector struct{ base }

// Collect implements collector.Collector.
func (c *StartupItemsCollector) Collect(ctx context.Context) (document.Value, error) {
	out, err := c.env.runner.Run(ctx, "osascript", "-e",
		`tell application "System Events" to get the name of every login item`)
	if err != nil {
		return document.Value{}, err
	}
	return document.Strings(splitList(out)), nil
}

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

// SecuritySettingsCollector records FileVault, application firewall and SIP status.
type SecuritySettingsCollector struct{ base }

// Collect implements collector.Collector.
func (c *SecuritySettingsCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"filevault": s.text(ctx, "fdesetup", "status"),
		"firewall":  s.text(ctx, "defaults", "read", alfPreferences, "globalstate"),
		"sip":       s.text(ctx, "csrutil", "status"),
	})
}

// GatekeeperCollector records the Gatekeeper assessment status.
type GatekeeperCollector struct{ base }

// Collect implements collector.Collector.
func (c *GatekeeperCollector) Collect(ctx context.Context) (document.Value, error) {
	return c.single(ctx, "status", "spctl", "--status")
}

// XProtectCollector records the XProtect definitions version.
type XProtectCollector struct{ base }

// Collect implements collector.Collector.
func (c *XProtectCollector) Collect(ctx context.Context) (document.Value, error) {
	return c.single(ctx, "version", "defaults", "read", xprotectInfoPlist, bundleVersionField)
}

// MRTCollector records the Malware Removal Tool version.
type MRTCollector struct{ base }

// Collect implements collector.Collector.
func (c *MRTCollector) Collect(ctx context.Context) (document.Value, error) {
	return c.single(ctx, "version", "defaults", "read", mrtInfoPlist, bundleVersionField)
}

// single wraps one command's output as {key: output}.
func (b base) single(ctx context.Context, key, name string, args ...string) (document.Value, error) {
	out, err := b.env.runner.Run(ctx, name, args...)
	if err != nil {
		return document.Value{}, err
	}
	return document.StringMap(map[string]string{key: out}), nil
}

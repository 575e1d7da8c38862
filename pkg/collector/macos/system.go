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

// SystemInfoCollector records OS version, host identity and hardware summary.
type SystemInfoCollector struct{ base }

// Collect implements collector.Collector.
func (c *SystemInfoCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"sw_vers":        s.lines(ctx, "sw_vers"),
		"hostname":       s.text(ctx, "hostname"),
		"uptime":         s.text(ctx, "uptime"),
		"hardware_model": s.text(ctx, "sysctl", "-n", "hw.model"),
		"cpu_brand":      s.text(ctx, "sysctl", "-n", "machdep.cpu.brand_string"),
		"memory_size":    s.text(ctx, "sysctl", "-n", "hw.memsize"),
	})
}

// KernelExtensionsCollector lists loaded kernel extensions.
type KernelExtensionsCollector struct{ base }

// Collect implements collector.Collector.
func (c *KernelExtensionsCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "kextstat", "-l"))
}

// PrintersCollector lists configured printers.
type PrintersCollector struct{ base }

// Collect implements collector.Collector.
func (c *PrintersCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "lpstat", "-p"))
}

// BluetoothDevicesCollector records the Bluetooth hardware report.
type BluetoothDevicesCollector struct{ base }

// Collect implements collector.Collector.
func (c *BluetoothDevicesCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "system_profiler", "SPBluetoothDataType"))
}

// TimeMachineCollector records Time Machine destinations.
type TimeMachineCollector struct{ base }

// Collect implements collector.Collector.
func (c *TimeMachineCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "tmutil", "destinationinfo"))
}

func linesValue(lines []string, err error) (document.Value, error) {
	if err != nil {
		return document.Value{}, err
	}
	return document.Strings(lines), nil
}

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


package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macfp/macfp/pkg/collector"
	"github.com/macfp/macfp/pkg/collector/command"
	"github.com/macfp/macfp/pkg/collector/macos"
	"github.com/macfp/macfp/pkg/document"
)

type staticCollector struct {
	name     string
	category collector.Category
	value    document.Value
}

func (s staticCollector) Name() string                 { return s.name }
func (s staticCollector) Category() collector.Category { return s.category }
func (s staticCollector) Collect(context.Context) (document.Value, error) {
	return s.value, nil
}

func baselineCollectors() []collector.Collector {
	return []collector.Collector{
		staticCollector{
			name:     macos.SystemInfoName,
			category: collector.CategorySystem,
			value:    document.StringMap(map[string]string{"os_version": "14.0"}),
		},
		staticCollector{
			name:     macos.InstalledAppsName,
			category: collector.CategoryApplications,
			value:    document.Strings([]string{"A.app"}),
		},
		staticCollector{
			name:     macos.GatekeeperName,
			category: collector.CategorySecurity,
			value:    document.StringMap(map[string]string{"status": "assessments enabled"}),
		},
	}
}

func driftedCollectors() []collector.Collector {
	return []collector.Collector{
		staticCollector{
			name:     macos.SystemInfoName,
			category: collector.CategorySystem,
			value:    document.StringMap(map[string]string{"os_version": "14.0"}),
		},
		staticCollector{
			name:     macos.InstalledAppsName,
			category: collector.CategoryApplications,
			value:    document.Strings([]string{"A.app", "B.app"}),
		},
		staticCollector{
			name:     macos.GatekeeperName,
			category: collector.CategorySecurity,
			value:    document.StringMap(map[string]string{"status": "assessments disabled"}),
		},
	}
}

// useCollectors makes every command run against collectors.
func useCollectors(t *testing.T, collectors []collector.Collector) {
	t.Helper()
	orig := newRegistry
	newRegistry = func(command.Runner) *collector.Registry {
		reg := collector.NewRegistry()
		for _, c := range collectors {
			require.NoError(t, reg.Register(c))
		}
		return reg
	}
	t.Cleanup(func() { newRegistry = orig })
}

func nonInteractive(t *testing.T) {
	t.Helper()
	orig := stdinIsTerminal
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdinIsTerminal = orig })
}

type harness struct {
	dir    string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	nonInteractive(t)
	dir := t.TempDir()
	return &harness{dir: dir, config: filepath.Join(dir, "config.toml")}
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

// run executes the root command and returns its stdout.
func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.Writer = &out
	root.ErrWriter = &out
	full := append([]string{name, "--log-level", "error", "--config", h.config}, args...)
	err := root.Run(context.Background(), full)
	return out.String(), err
}

func TestCreateAndHash(t *testing.T) {
	h := newHarness(t)
	useCollectors(t, baselineCollectors())
	fpPath := h.path("fp.json")

	out, err := h.run(t, "create", "-o", fpPath, "--json")
	require.NoError(t, err)

	var created createResult
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "ok", created.Status)
	assert.Equal(t, fpPath, created.Output)
	assert.False(t, created.Encrypted)
	assert.Len(t, created.Hash, 64)
	assert.Equal(t, []string{macos.GatekeeperName, macos.InstalledAppsName, macos.SystemInfoName}, created.Collectors)

	info, err := os.Stat(fpPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	out, err = h.run(t, "hash", fpPath, "--json")
	require.NoError(t, err)
	var hashed hashResult
	require.NoError(t, json.Unmarshal([]byte(out), &hashed))
	assert.Equal(t, created.Hash, hashed.Hash)
	assert.Equal(t, "verified", hashed.Integrity)

	out, err = h.run(t, "hash", fpPath)
	require.NoError(t, err)
	assert.Equal(t, "Hash: "+created.Hash+"\n", out)
}

func TestCreateTextOutput(t *testing.T) {
	h := newHarness(t)
	useCollectors(t, baselineCollectors())

	out, err := h.run(t, "create", "-o", h.path("fp.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Creating fingerprint...")
	assert.Contains(t, out, "Fingerprint saved to: "+h.path("fp.json"))
	assert.Contains(t, out, "Hash: ")
}

func TestCreateEncrypted(t *testing.T) {
	h := newHarness(t)
	useCollectors(t, baselineCollectors())
	fpPath := h.path("secure.json")

	_, err := h.run(t, "create", "-o", fpPath, "--encrypt", "--json")
	require.Error(t, err, "encryption without a password must fail in non-interactive mode")
	assert.NoFileExists(t, fpPath)

	out, err := h.run(t, "create", "-o", fpPath, "--encrypt", "--password", "s3cret", "--json")
	require.NoError(t, err)
	var created createResult
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.True(t, created.Encrypted)

	raw, err := os.ReadFile(fpPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"encrypted_data"`)
	assert.NotContains(t, string(raw), "assessments enabled")

	out, err = h.run(t, "hash", fpPath, "--encrypted", "--password", "s3cret", "--json")
	require.NoError(t, err)
	var hashed hashResult
	require.NoError(t, json.Unmarshal([]byte(out), &hashed))
	assert.Equal(t, created.Hash, hashed.Hash)
	assert.Equal(t, "encrypted", hashed.Integrity)

	_, err = h.run(t, "hash", fpPath, "--encrypted", "--password", "wrong")
	assert.Error(t, err)

	_, err = h.run(t, "hash", fpPath, "--encrypted")
	assert.Error(t, err)
}

func TestCreateUsesConfig(t *testing.T) {
	h := newHarness(t)
	useCollectors(t, baselineCollectors())
	cfgOutput := h.path("from-config.json")
	require.NoError(t, os.WriteFile(h.config, []byte(
		"output = \""+cfgOutput+"\"\ncollectors = [\""+macos.SystemInfoName+"\"]\n"), 0o600))

	out, err := h.run(t, "create", "--json")
	require.NoError(t, err)
	var created createResult
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, cfgOutput, created.Output)
	assert.Equal(t, []string{macos.SystemInfoName}, created.Collectors)

	out, err = h.run(t, "create", "-o", h.path("flag.json"), "--collectors", macos.GatekeeperName, "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, h.path("flag.json"), created.Output)
	assert.Equal(t, []string{macos.GatekeeperName}, created.Collectors)
}

func TestCreateMetricsFile(t *testing.T) {
	h := newHarness(t)
	useCollectors(t, baselineCollectors())
	metrics := h.path("macfp.prom")

	_, err := h.run(t, "create", "-o", h.path("fp.json"), "--metrics-file", metrics, "--json")
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "macfp_collector_runs_total")
}

func createBaseline(t *testing.T, h *harness) string {
	t.Helper()
	useCollectors(t, baselineCollectors())
	path := h.path("baseline.json")
	_, err := h.run(t, "create", "-o", path, "--json")
	require.NoError(t, err)
	return path
}

func TestCompareJSON(t *testing.T) {
	h := newHarness(t)
	baseline := createBaseline(t, h)
	useCollectors(t, driftedCollectors())

	out, err := h.run(t, "compare", "-b", baseline, "--json")
	require.NoError(t, err)

	var got struct {
		Summary map[string]int `json:"summary"`
		Changes map[string]struct {
			Severity string `json:"severity"`
		} `json:"changes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.Summary["total_changes"])
	assert.Equal(t, 1, got.Summary["critical"])
	assert.Equal(t, 1, got.Summary["low"])
	assert.Equal(t, "critical", got.Changes[macos.GatekeeperName].Severity)
	assert.Equal(t, "low", got.Changes[macos.InstalledAppsName].Severity)
	assert.NotContains(t, got.Changes, macos.SystemInfoName)
}

func TestCompareIgnoreAndText(t *testing.T) {
	h := newHarness(t)
	baseline := createBaseline(t, h)
	useCollectors(t, driftedCollectors())

	out, err := h.run(t, "compare", "-b", baseline, "--ignore-collectors", "Gatekeeper*")
	require.NoError(t, err)
	assert.Contains(t, out, "Loading baseline fingerprint...")
	assert.Contains(t, out, "Total Changes: 1")
	assert.Contains(t, out, macos.InstalledAppsName)
	assert.NotContains(t, out, macos.GatekeeperName)
}

func TestCompareExport(t *testing.T) {
	h := newHarness(t)
	baseline := createBaseline(t, h)
	useCollectors(t, driftedCollectors())

	for _, format := range []string{"html", "json", "yaml", "table", "text"} {
		t.Run(format, func(t *testing.T) {
			dest := h.path("report." + format)
			out, err := h.run(t, "compare", "-b", baseline, "-o", dest, "--format", format)
			require.NoError(t, err)
			assert.Contains(t, out, "Comparison exported to: "+dest)

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Contains(t, string(data), macos.GatekeeperName)

			info, err := os.Stat(dest)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		})
	}

	data, err := os.ReadFile(h.path("report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}

func TestCompareExportRejectsBadPath(t *testing.T) {
	h := newHarness(t)
	baseline := createBaseline(t, h)

	for _, format := range []string{"yaml", "table", "json", "html"} {
		t.Run(format, func(t *testing.T) {
			out, err := h.run(t, "compare", "-b", baseline, "-o", "../x."+format, "--format", format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to export comparison")
			assert.NotContains(t, out, "Comparison exported to:")
		})
	}
}

func TestCompareErrors(t *testing.T) {
	h := newHarness(t)
	baseline := createBaseline(t, h)

	_, err := h.run(t, "compare", "-b", baseline, "--format", "pdf")
	assert.Error(t, err)

	out, err := h.run(t, "compare", "-b", h.path("missing.json"), "--json")
	require.Error(t, err)
	var body jsonError
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, "error", body.Status)
	assert.Contains(t, body.Message, "could not load baseline")

	_, err = h.run(t, "compare")
	assert.Error(t, err, "baseline is required")
}

func TestCompareTamperedBaselineWarns(t *testing.T) {
	h := newHarness(t)
	baseline := createBaseline(t, h)

	raw, err := os.ReadFile(baseline)
	require.NoError(t, err)
	tampered := bytes.Replace(raw, []byte("A.app"), []byte("Z.app"), 1)
	require.NoError(t, os.WriteFile(baseline, tampered, 0o600))

	out, err := h.run(t, "compare", "-b", baseline)
	require.NoError(t, err)
	assert.Contains(t, out, "integrity check failed")
}

func TestListCollectors(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "list-collectors", "--json")
	require.NoError(t, err)
	var list collectorList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, macos.Names(), list.Collectors)
	require.Len(t, list.Details, len(macos.Names()))
	assert.Equal(t, "applications", list.Details[0].Category)

	out, err = h.run(t, "list-collectors")
	require.NoError(t, err)
	assert.Contains(t, out, "Available collectors:")
	assert.Contains(t, out, macos.XcodeName)
}

func TestInit(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "init", "--json")
	require.NoError(t, err)
	var res initResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, h.config, res.ConfigPath)
	assert.True(t, res.Created)
	assert.FileExists(t, h.config)

	out, err = h.run(t, "init")
	require.NoError(t, err)
	assert.Equal(t, "Config file: "+h.config+"\n", out)
}

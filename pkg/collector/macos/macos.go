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
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/macfp/macfp/pkg/collector"
	"github.com/macfp/macfp/pkg/collector/command"
	"github.com/macfp/macfp/pkg/collector/file"
	"github.com/macfp/macfp/pkg/document"
)

// Collector names in registration order.
const (
	InstalledAppsName      = "InstalledAppsCollector"
	BrowserExtensionsName  = "BrowserExtensionsCollector"
	LaunchAgentsName       = "LaunchAgentsCollector"
	StartupItemsName       = "StartupItemsCollector"
	SystemInfoName         = "SystemInfoCollector"
	KernelExtensionsName   = "KernelExtensionsCollector"
	PrintersName           = "PrintersCollector"
	BluetoothDevicesName   = "BluetoothDevicesCollector"
	TimeMachineName        = "TimeMachineCollector"
	NetworkConfigName      = "NetworkConfigCollector"
	OpenPortsName          = "OpenPortsCollector"
	NetworkConnectionsName = "NetworkConnectionsCollector"
	SSHConfigName          = "SSHConfigCollector"
	HostsFileName          = "HostsFileCollector"
	NetworkSharesName      = "NetworkSharesCollector"
	BonjourServicesName    = "BonjourServicesCollector"
	SecuritySettingsName   = "SecuritySettingsCollector"
	GatekeeperName         = "GatekeeperCollector"
	XProtectName           = "XProtectCollector"
	MRTName                = "MRTCollector"
	UserAccountsName       = "UserAccountsCollector"
	HomebrewName           = "HomebrewCollector"
	PipPackagesName        = "PipPackagesCollector"
	NpmPackagesName        = "NpmPackagesCollector"
	XcodeName              = "XcodeCollector"
)

const (
	defaultBonjourWindow = 3 * time.Second

	alfPreferences     = "/Library/Preferences/com.apple.alf"
	airportPath        = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"
	xprotectInfoPlist  = "/System/Library/CoreServices/XProtect.bundle/Contents/Info.plist"
	mrtInfoPlist       = "/System/Library/CoreServices/MRT.app/Contents/Info.plist"
	bundleVersionField = "CFBundleShortVersionString"
)

// Names returns every collector name in registration order.
func Names() []string {
	return []string{
		InstalledAppsName, BrowserExtensionsName, LaunchAgentsName, StartupItemsName,
		SystemInfoName, KernelExtensionsName, PrintersName, BluetoothDevicesName, TimeMachineName,
		NetworkConfigName, OpenPortsName, NetworkConnectionsName, SSHConfigName, HostsFileName,
		NetworkSharesName, BonjourServicesName,
		SecuritySettingsName, GatekeeperName, XProtectName, MRTName,
		UserAccountsName,
		HomebrewName, PipPackagesName, NpmPackagesName, XcodeName,
	}
}

// env carries the dependencies shared by all collectors of one registry.
type env struct {
	runner        command.Runner
	home          string
	root          string
	bonjourWindow time.Duration
}

// Option configures the collectors built by NewRegistry and All.
type Option func(*env)

// WithRunner sets the command runner. Default is command.NewExecutor().
func WithRunner(r command.Runner) Option {
	return func(e *env) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithHomeDir sets the home directory used for per-user paths.
func WithHomeDir(dir string) Option {
	return func(e *env) {
		e.home = dir
	}
}

// WithRoot prefixes system file paths such as /etc/hosts with dir.
func WithRoot(dir string) Option {
	return func(e *env) {
		e.root = dir
	}
}

// WithBonjourWindow sets how long the Bonjour browser is sampled.
func WithBonjourWindow(d time.Duration) Option {
	return func(e *env) {
		if d > 0 {
			e.bonjourWindow = d
		}
	}
}

func newEnv(opts ...Option) *env {
	e := &env{
		runner:        command.NewExecutor(),
		bonjourWindow: defaultBonjourWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Warn("failed to resolve home directory", slog.String("error", err.Error()))
			home = os.Getenv("HOME")
		}
		e.home = home
	}
	return e
}

// All returns new instances of every collector in registration order.
func All(opts ...Option) []collector.Collector {
	e := newEnv(opts...)
	return []collector.Collector{
		&InstalledAppsCollector{newBase(InstalledAppsName, collector.CategoryApplications, e)},
		&BrowserExtensionsCollector{newBase(BrowserExtensionsName, collector.CategoryApplications, e)},
		&LaunchAgentsCollector{newBase(LaunchAgentsName, collector.CategoryApplications, e)},
		&StartupItemsCollector{newBase(StartupItemsName, collector.CategoryApplications, e)},
		&SystemInfoCollector{newBase(SystemInfoName, collector.CategorySystem, e)},
		&KernelExtensionsCollector{newBase(KernelExtensionsName, collector.CategorySystem, e)},
		&PrintersCollector{newBase(PrintersName, collector.CategorySystem, e)},
		&BluetoothDevicesCollector{newBase(BluetoothDevicesName, collector.CategoryHardware, e)},
		&TimeMachineCollector{newBase(TimeMachineName, collector.CategorySystem, e)},
		&NetworkConfigCollector{newBase(NetworkConfigName, collector.CategoryNetwork, e)},
		&OpenPortsCollector{newBase(OpenPortsName, collector.CategoryNetwork, e)},
		&NetworkConnectionsCollector{newBase(NetworkConnectionsName, collector.CategoryNetwork, e)},
		&SSHConfigCollector{newBase(SSHConfigName, collector.CategoryNetwork, e)},
		&HostsFileCollector{newBase(HostsFileName, collector.CategoryNetwork, e)},
		&NetworkSharesCollector{newBase(NetworkSharesName, collector.CategoryNetwork, e)},
		&BonjourServicesCollector{newBase(BonjourServicesName, collector.CategoryNetwork, e)},
		&SecuritySettingsCollector{newBase(SecuritySettingsName, collector.CategorySecurity, e)},
		&GatekeeperCollector{newBase(GatekeeperName, collector.CategorySecurity, e)},
		&XProtectCollector{newBase(XProtectName, collector.CategorySecurity, e)},
		&MRTCollector{newBase(MRTName, collector.CategorySecurity, e)},
		&UserAccountsCollector{newBase(UserAccountsName, collector.CategoryUser, e)},
		&HomebrewCollector{newBase(HomebrewName, collector.CategoryDeveloper, e)},
		&PipPackagesCollector{newBase(PipPackagesName, collector.CategoryDeveloper, e)},
		&NpmPackagesCollector{newBase(NpmPackagesName, collector.CategoryDeveloper, e)},
		&XcodeCollector{newBase(XcodeName, collector.CategoryDeveloper, e)},
	}
}

// NewRegistry returns a fresh registry holding every macOS collector.
func NewRegistry(opts ...Option) *collector.Registry {
	reg := collector.NewRegistry()
	for _, c := range All(opts...) {
		// names are constant and non-empty
		_ = reg.Register(c)
	}
	return reg
}

// base holds the identity and dependencies common to all collectors.
type base struct {
	name     string
	category collector.Category
	env      *env
}

func newBase(name string, cat collector.Category, e *env) base {
	return base{name: name, category: cat, env: e}
}

// Name implements collector.Collector.
func (b base) Name() string { return b.name }

// Category implements collector.Collector.
func (b base) Category() collector.Category { return b.category }

// homePath joins rel onto the user's home directory.
func (b base) homePath(rel string) string {
	return filepath.Join(b.env.home, rel)
}

// systemPath prefixes an absolute system path with the configured root.
func (b base) systemPath(p string) string {
	if b.env.root == "" {
		return p
	}
	return filepath.Join(b.env.root, p)
}

// lines runs a command and splits its output into lines.
func (b base) lines(ctx context.Context, name string, args ...string) ([]string, error) {
	out, err := b.env.runner.Run(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	return command.Lines(out), nil
}

// sources accumulates a multi-source result and remembers failures.
type sources struct {
	b      base
	failed []error
	total  int
}

func (b base) sources() *sources {
	return &sources{b: b}
}

func (s *sources) record(what string, err error) {
	s.total++
	if err != nil {
		slog.Debug("collector source unavailable",
			slog.String("collector", s.b.name),
			slog.String("source", what),
			slog.String("error", err.Error()))
		s.failed = append(s.failed, err)
	}
}

// lines returns the command's lines or an empty list when it fails.
func (s *sources) lines(ctx context.Context, name string, args ...string) document.Value {
	ls, err := s.b.lines(ctx, name, args...)
	s.record(name, err)
	if err != nil {
		return document.Strings(nil)
	}
	return document.Strings(ls)
}

// text returns the command's output or an empty string when it fails.
func (s *sources) text(ctx context.Context, name string, args ...string) document.Value {
	out, err := s.b.env.runner.Run(ctx, name, args...)
	s.record(name, err)
	if err != nil {
		return document.Str("")
	}
	return document.Str(out)
}

// file returns the file's lines or an empty list when it cannot be read.
func (s *sources) file(path string, opts ...file.Option) document.Value {
	ls, err := file.NewParser(opts...).GetLines(path)
	s.record(path, err)
	if err != nil {
		return document.Strings(nil)
	}
	return document.Strings(ls)
}

// result returns the assembled map, or an error when every source failed.
func (s *sources) result(fields map[string]document.Value) (document.Value, error) {
	if s.total > 0 && len(s.failed) == s.total {
		return document.Value{}, stderrors.Join(s.failed...)
	}
	return document.Map(fields), nil
}

// splitList splits a comma separated AppleScript list.
func splitList(out string) []string {
	if strings.TrimSpace(out) == "" {
		return []string{}
	}
	return strings.Split(out, ", ")
}

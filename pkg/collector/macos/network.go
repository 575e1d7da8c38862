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
	"regexp"
	"strings"

	"github.com/macfp/macfp/pkg/collector/command"
	"github.com/macfp/macfp/pkg/collector/file"
	"github.com/macfp/macfp/pkg/document"
	"github.com/macfp/macfp/pkg/errors"
)

// serviceOrderLine matches "(1) Wi-Fi" entries of networksetup -listnetworkserviceorder.
var serviceOrderLine = regexp.MustCompile(`^\((\d+)\)\s+(.+)$`)

// NetworkConfigCollector records interfaces, services, addresses, DNS, routes,
// ARP cache, nearby Wi-Fi networks, VPN services, proxies and firewall state.
type NetworkConfigCollector struct{ base }

// Collect implements collector.Collector.
func (c *NetworkConfigCollector) Collect(ctx context.Context) (document.Value, error) {
	s := c.sources()

	order := s.lines(ctx, "networksetup", "-listnetworkserviceorder")
	var services []string
	for _, line := range order.Items() {
		text, _ := line.AsString()
		if m := serviceOrderLine.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
			services = append(services, m[2])
		}
	}

	ips := make(map[string]document.Value)
	proxies := make(map[string]document.Value)
	for _, svc := range services {
		if ip, err := c.env.runner.Run(ctx, "ipconfig", "getifaddr", svc); err == nil && ip != "" {
			ips[svc] = document.Str(ip)
		}
		web, _ := c.env.runner.Run(ctx, "networksetup", "-getwebproxy", svc)
		secure, _ := c.env.runner.Run(ctx, "networksetup", "-getsecurewebproxy", svc)
		proxies[svc] = document.StringMap(map[string]string{
			"web_proxy":    web,
			"secure_proxy": secure,
		})
	}

	var dns []string
	for _, line := range s.lines(ctx, "scutil", "--dns").Items() {
		if text, _ := line.AsString(); strings.Contains(text, "nameserver[") {
			dns = append(dns, text)
		}
	}

	return s.result(map[string]document.Value{
		"interfaces":      s.lines(ctx, "networksetup", "-listallhardwareports"),
		"active_services": document.Strings(services),
		"ip_addresses":    document.Map(ips),
		"dns_servers":     document.Strings(dns),
		"routing_table":   s.lines(ctx, "netstat", "-nr"),
		"arp_cache":       s.lines(ctx, "arp", "-a"),
		"wifi_networks":   s.lines(ctx, airportPath, "-s"),
		"vpn":             s.lines(ctx, "networksetup", "-listpppoeservices"),
		"proxy_settings":  document.Map(proxies),
		"firewall_status": s.text(ctx, "defaults", "read", alfPreferences, "globalstate"),
	})
}

// OpenPortsCollector lists open network files.
type OpenPortsCollector struct{ base }

// Collect implements collector.Collector.
func (c *OpenPortsCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "lsof", "-i", "-P", "-n"))
}

// NetworkConnectionsCollector lists sockets and their states.
type NetworkConnectionsCollector struct{ base }

// Collect implements collector.Collector.
func (c *NetworkConnectionsCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "netstat", "-an"))
}

// SSHConfigCollector records the sshd configuration and the user's known hosts.
type SSHConfigCollector struct{ base }

// Collect implements collector.Collector.
func (c *SSHConfigCollector) Collect(_ context.Context) (document.Value, error) {
	s := c.sources()
	return s.result(map[string]document.Value{
		"sshd_config": s.file(c.systemPath("/etc/ssh/sshd_config"), file.WithSkipComments(false)),
		"known_hosts": s.file(c.homePath(".ssh/known_hosts"), file.WithSkipComments(false)),
	})
}

// HostsFileCollector records /etc/hosts including comments.
type HostsFileCollector struct{ base }

// Collect implements collector.Collector.
func (c *HostsFileCollector) Collect(_ context.Context) (document.Value, error) {
	lines, err := file.NewParser(file.WithSkipComments(false)).GetLines(c.systemPath("/etc/hosts"))
	return linesValue(lines, err)
}

// NetworkSharesCollector lists file sharing points.
type NetworkSharesCollector struct{ base }

// Collect implements collector.Collector.
func (c *NetworkSharesCollector) Collect(ctx context.Context) (document.Value, error) {
	return linesValue(c.lines(ctx, "sharing", "-l"))
}

// BonjourServicesCollector samples the Bonjour service browser.
// dns-sd never exits on its own, so output captured before the window
// closes is the result.
type BonjourServicesCollector struct{ base }

// Collect implements collector.Collector.
func (c *BonjourServicesCollector) Collect(ctx context.Context) (document.Value, error) {
	wctx, cancel := context.WithTimeout(ctx, c.env.bonjourWindow)
	defer cancel()

	out, err := c.env.runner.Run(wctx, "dns-sd", "-B")
	if err != nil && !errors.HasCode(err, errors.ErrCodeTimeout) {
		return document.Value{}, err
	}
	if err != nil && ctx.Err() != nil {
		return document.Value{}, ctx.Err()
	}
	return document.Strings(command.Lines(out)), nil
}

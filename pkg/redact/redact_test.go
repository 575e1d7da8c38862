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


package redact

import (
	"strings"
	"testing"

	"github.com/macfp/macfp/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashValue(t *testing.T) {
	assert.Equal(t, "", HashValue(""))

	h := HashValue("192.168.1.20")
	assert.Len(t, h, 64)
	assert.NotEqual(t, "192.168.1.20", h)
	assert.Equal(t, h, HashValue("192.168.1.20"))
	assert.NotEqual(t, h, HashValue("192.168.1.21"))

	// SHA3-256("abc")
	assert.Equal(t, "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532", HashValue("abc"))
}

func fingerprintDoc() document.Value {
	return document.MustParse(`{
		"timestamp": "2024-01-01T00:00:00.000000",
		"collectors": {
			"NetworkConfigCollector": {
				"ip_addresses": {"Wi-Fi": "192.168.1.20"},
				"arp_cache": ["? (192.168.1.1) at aa:bb on en0", ""],
				"routing_table": ["default 192.168.1.1 UGScg en0"],
				"wifi_networks": [],
				"dns_servers": ["nameserver[0] : 1.1.1.1"],
				"firewall_status": "1"
			},
			"SSHConfigCollector": {
				"sshd_config": ["PermitRootLogin no"],
				"known_hosts": ["github.com ssh-ed25519 AAAA"]
			},
			"HostsFileCollector": ["# Host Database", "127.0.0.1 localhost", ""],
			"InstalledAppsCollector": {"system": ["Safari.app"], "user": []},
			"GatekeeperCollector": {"error": "spctl not found"}
		}
	}`)
}

func TestRedact(t *testing.T) {
	doc := fingerprintDoc()
	before := string(doc.Canonical())

	out := Redact(doc)

	assert.Equal(t, before, string(doc.Canonical()), "input must not be mutated")

	collectors, _ := out.Get("collectors")
	net, _ := collectors.Get("NetworkConfigCollector")

	ips, _ := net.Get("ip_addresses")
	wifi, _ := ips.Get("Wi-Fi")
	assert.Equal(t, HashValue("192.168.1.20"), wifi.String())

	arp, _ := net.Get("arp_cache")
	items := arp.Items()
	require.Len(t, items, 2)
	assert.Equal(t, HashValue("? (192.168.1.1) at aa:bb on en0"), items[0].String())
	assert.Equal(t, "", items[1].String())

	dns, _ := net.Get("dns_servers")
	assert.Equal(t, `["nameserver[0] : 1.1.1.1"]`, string(dns.Canonical()))

	ssh, _ := collectors.Get("SSHConfigCollector")
	sshd, _ := ssh.Get("sshd_config")
	assert.Equal(t, `["PermitRootLogin no"]`, string(sshd.Canonical()))
	known, _ := ssh.Get("known_hosts")
	assert.Equal(t, HashValue("github.com ssh-ed25519 AAAA"), known.Items()[0].String())

	hosts, _ := collectors.Get("HostsFileCollector")
	hostItems := hosts.Items()
	assert.Equal(t, "# Host Database", hostItems[0].String())
	assert.Equal(t, HashValue("127.0.0.1 localhost"), hostItems[1].String())
	assert.Equal(t, "", hostItems[2].String())

	apps, _ := collectors.Get("InstalledAppsCollector")
	orig, _ := doc.Get("collectors")
	origApps, _ := orig.Get("InstalledAppsCollector")
	assert.True(t, apps.Equal(origApps))

	ts, _ := out.Get("timestamp")
	assert.Equal(t, "2024-01-01T00:00:00.000000", ts.String())
}

func TestRedactPreservesShape(t *testing.T) {
	doc := fingerprintDoc()
	once := Redact(doc)
	twice := Redact(once)

	assert.Equal(t, shape(doc), shape(once))
	assert.Equal(t, shape(once), shape(twice))
	assert.False(t, once.Equal(twice))
}

func TestRedactNeverLeaksSensitiveValues(t *testing.T) {
	out := string(Redact(fingerprintDoc()).Canonical())
	for _, secret := range []string{"192.168.1.20", "github.com ssh-ed25519", "127.0.0.1 localhost", "default 192.168.1.1"} {
		assert.False(t, strings.Contains(out, secret), secret)
	}
}

func TestRedactErrorRecordsUntouched(t *testing.T) {
	doc := document.MustParse(`{"collectors": {"HostsFileCollector": {"error": "permission denied"}}}`)
	assert.True(t, doc.Equal(Redact(doc)))
}

func TestRedactWithoutCollectors(t *testing.T) {
	doc := document.MustParse(`{"timestamp": "x"}`)
	assert.True(t, doc.Equal(Redact(doc)))
}

func TestSensitive(t *testing.T) {
	assert.True(t, Sensitive("HostsFileCollector"))
	assert.False(t, Sensitive("InstalledAppsCollector"))
	assert.Equal(t, []string{"HostsFileCollector", "NetworkConfigCollector", "SSHConfigCollector"}, SensitiveCollectors())
}

// shape renders a value with every string replaced by "s".
func shape(v document.Value) string {
	return string(v.MapStrings(func(string) string { return "s" }).Canonical())
}

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
	"encoding/hex"
	"sort"
	"strings"

	"github.com/macfp/macfp/pkg/document"
	"golang.org/x/crypto/sha3"
)

// Collector names with redaction rules.
const (
	NetworkConfigCollector = "NetworkConfigCollector"
	SSHConfigCollector     = "SSHConfigCollector"
	HostsFileCollector     = "HostsFileCollector"
)

// Rule rewrites the sensitive leaves of one collector's output.
type Rule func(document.Value) document.Value

var rules = map[string]Rule{
	NetworkConfigCollector: redactNetworkConfig,
	SSHConfigCollector:     redactSSHConfig,
	HostsFileCollector:     redactHostsFile,
}

// HashValue returns the SHA3-256 hex digest of s, or "" for empty input.
func HashValue(s string) string {
	if s == "" {
		return ""
	}
	sum := sha3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Sensitive reports whether the named collector has a redaction rule.
func Sensitive(name string) bool {
	_, ok := rules[name]
	return ok
}

// SensitiveCollectors returns the sorted names of collectors with rules.
func SensitiveCollectors() []string {
	names := make([]string, 0, len(rules))
	for n := range rules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Collector applies the named collector's rule to v. Values without a rule
// are returned unchanged.
func Collector(name string, v document.Value) document.Value {
	rule, ok := rules[name]
	if !ok {
		return v
	}
	return rule(v)
}

// Redact returns a copy of a fingerprint document with every sensitive
// collector output redacted. The input is not modified. Documents without a
// "collectors" map are returned unchanged.
func Redact(doc document.Value) document.Value {
	collectors, ok := doc.Get("collectors")
	if !ok || collectors.Kind() != document.KindMap {
		return doc
	}

	out := collectors
	for name := range rules {
		if v, found := collectors.Get(name); found {
			out = out.With(name, Collector(name, v))
		}
	}
	return doc.With("collectors", out)
}

func redactNetworkConfig(v document.Value) document.Value {
	if v.Kind() != document.KindMap {
		return v
	}
	if ips, ok := v.Get("ip_addresses"); ok && ips.Kind() == document.KindMap {
		hashed := make(map[string]document.Value, ips.Len())
		for svc, ip := range ips.Entries() {
			hashed[svc] = hashString(ip)
		}
		v = v.With("ip_addresses", document.Map(hashed))
	}
	for _, key := range []string{"arp_cache", "routing_table", "wifi_networks"} {
		v = hashListField(v, key)
	}
	return v
}

func redactSSHConfig(v document.Value) document.Value {
	if v.Kind() != document.KindMap {
		return v
	}
	return hashListField(v, "known_hosts")
}

func redactHostsFile(v document.Value) document.Value {
	if v.Kind() != document.KindList {
		return v
	}
	items := v.Items()
	for i, item := range items {
		if s, ok := item.AsString(); ok && !strings.HasPrefix(s, "#") {
			items[i] = document.Str(HashValue(s))
		}
	}
	return document.List(items...)
}

// hashListField hashes the string items of the list stored under key.
func hashListField(v document.Value, key string) document.Value {
	list, ok := v.Get(key)
	if !ok || list.Kind() != document.KindList {
		return v
	}
	items := list.Items()
	for i, item := range items {
		items[i] = hashString(item)
	}
	return v.With(key, document.List(items...))
}

func hashString(v document.Value) document.Value {
	if s, ok := v.AsString(); ok {
		return document.Str(HashValue(s))
	}
	return v
}

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


package config

import (
	"log/slog"
	"os"

	"github.com/macfp/macfp/pkg/storage"
)

// Template is the commented default configuration written by InitFile.
const Template = `# macOS fingerprint configuration
# Run "macfp list-collectors" for the available collector names.

# Default output file
output = "fingerprint.json"

# Hash sensitive fields (IP addresses, SSH known hosts, hosts entries)
hash_sensitive = true

# Encrypt the output file
encrypt = false

# Run collectors in parallel for faster scans
parallel = false

# Maximum concurrent collectors in parallel mode
max_workers = 4

# Only run these collectors (empty = all)
# collectors = ["SystemInfoCollector", "NetworkConfigCollector"]
collectors = []

# Skip these collectors
# exclude = ["BluetoothDevicesCollector", "PrintersCollector"]
exclude = []

# Collectors whose changes should be ignored in comparisons
ignore_collectors = []
`

// InitFile writes Template to path, or to DefaultPath when path is empty.
// An existing file is left untouched. It returns the resolved path and
// whether a file was created.
func InitFile(path string) (string, bool, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", false, err
		}
		path = p
	}

	clean, err := storage.SanitizePath(path)
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(clean); err == nil {
		slog.Debug("config already exists", "path", clean)
		return clean, false, nil
	}

	if err := storage.WriteFile(clean, []byte(Template)); err != nil {
		return clean, false, err
	}
	slog.Info("created default config", "path", clean)
	return clean, true, nil
}

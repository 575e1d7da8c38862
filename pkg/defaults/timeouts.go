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


package defaults

import "time"

// Collector execution.
const (
	// CommandTimeout bounds a single external command run by a collector.
	CommandTimeout = 30 * time.Second

	// MaxWorkers is the default worker count for parallel collection.
	MaxWorkers = 4

	// ShutdownTimeout is how long the CLI waits for in-flight collectors after a signal.
	ShutdownTimeout = 5 * time.Second
)

// File and document limits.
const (
	// MaxReadFileSize caps files read by collectors.
	MaxReadFileSize = 10 * 1024 * 1024

	// MaxJSONSize caps fingerprint and report documents loaded from disk.
	MaxJSONSize = 100 * 1024 * 1024

	// MaxJSONNesting caps the number of opening braces and brackets in a loaded document.
	MaxJSONNesting = 1000

	// FileMode is the permission applied to every file macfp writes.
	FileMode = 0o600

	// DirMode is the permission applied to directories macfp creates.
	DirMode = 0o700
)

// Key derivation.
const (
	// KDFIterations is the PBKDF2-SHA256 iteration count for encryption and integrity keys.
	KDFIterations = 100000

	// KeyLength is the derived key length in bytes.
	KeyLength = 32

	// SaltLength is the random salt length in bytes for encryption.
	SaltLength = 16

	// NonceLength is the AES-GCM nonce length in bytes.
	NonceLength = 12
)

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


// Package cli implements the macfp command-line interface.
//
// # Commands
//
// create - Capture a fingerprint of the current host:
//
//	macfp create -o baseline.json [--encrypt] [--parallel] [--collectors NAMES]
//
// Runs the selected collectors, redacts sensitive values unless --no-hash is
// given, and saves the result with an integrity tag or as an encrypted envelope.
//
// compare - Compare the current host against a baseline:
//
//	macfp compare -b baseline.json [-o report.html --format html]
//
// Loads the baseline, captures a fresh fingerprint with the same options and
// prints a severity summary. With --output the full report is exported.
//
// hash - Print the SHA3-256 hash of a saved fingerprint:
//
//	macfp hash baseline.json [--encrypted]
//
// list-collectors - Print the available collector names.
//
// init - Write a commented default config to ~/.macos-fingerprint/config.toml.
//
// # Configuration
//
// Values from the config file and MACFP_* environment variables apply only
// to flags that were not set on the command line.
//
// # Passwords
//
// Passwords are taken from --password, then --password-file, then an
// interactive prompt when stdin is a terminal. Otherwise the command fails.
//
// # Output
//
// Every command accepts --json for machine-readable results on stdout.
// Logs go to stderr and are controlled with --log-level.
package cli

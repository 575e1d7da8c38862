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


// Package logging configures structured logging for macfp on top of log/slog.
//
// Records are written to stderr as JSON so fingerprint and comparison output
// on stdout stays machine readable. Every record carries the module and
// version attributes. DEBUG level adds source locations.
//
// Supported levels (case-insensitive): DEBUG, INFO (default), WARN/WARNING, ERROR.
//
// Usage:
//
//	logging.SetDefaultStructuredLoggerWithLevel("macfp", version, "debug")
//	slog.Info("fingerprint created", "collectors", 25)
//
// When no level is passed the LOG_LEVEL environment variable is consulted:
//
//	LOG_LEVEL=debug macfp create -o baseline.json
package logging

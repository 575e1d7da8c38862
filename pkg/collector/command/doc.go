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


// Package command runs external programs on behalf of collectors.
//
// Commands are always executed as an argument vector, never through a shell.
// Before execution every argument is checked for shell metacharacters
// (| & ; > < ` $ ( )); osascript is exempt because AppleScript snippets
// legitimately contain them. Each invocation is bounded by a timeout
// (30s by default) and may be throttled by an optional rate limiter.
//
// Errors carry a structured code:
//
//   - ErrCodeInvalidRequest: the command failed validation
//   - ErrCodeUnavailable: the binary is not installed
//   - ErrCodeTimeout: the command exceeded its timeout
//   - ErrCodeInternal: the command exited with a non-zero status
//
// Collectors depend on the Runner interface so tests can substitute canned output.
package command

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


// Package crypto protects persisted fingerprints.
//
// # Encryption
//
// Encrypt derives a 256-bit key from the password with PBKDF2-SHA256
// (100,000 iterations, fresh 16-byte salt) and seals the canonical document
// with AES-256-GCM under a fresh 96-bit nonce and no associated data. The
// resulting Envelope carries base64 ciphertext, nonce and salt plus a format
// version. A password is mandatory.
//
// Decrypt fails with a single ErrDecryption for every cause (wrong password,
// tampered ciphertext, malformed envelope) and never returns partial output.
//
// # Integrity
//
// IntegrityTag is an HMAC-SHA256 over the canonical document without its
// _integrity_hash field. With a password the key is PBKDF2-derived under a
// fixed, distinct salt. Without one a public constant is used, which only
// detects accidental corruption.
package crypto

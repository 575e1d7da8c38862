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


// Package storage persists fingerprints to disk.
//
// An unencrypted file holds the fingerprint document plus an
// "_integrity_hash" field, an HMAC-SHA256 tag over the rest of the
// document. An encrypted file holds only the envelope fields
// "encrypted_data", "nonce", "salt" and "version".
//
// Load verifies the integrity tag when present. A mismatch is logged and
// reported through the returned crypto.Integrity value, but the document is
// still returned: files edited by hand or migrated between versions stay
// readable. Decryption failures and malformed JSON return no document.
//
// Files are written atomically with mode 0600. Paths are sanitized first:
// "~" is expanded, and paths containing ".." or under /dev/ or /proc/ are
// rejected.
package storage

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


package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/macfp/macfp/pkg/defaults"
	"github.com/macfp/macfp/pkg/document"
	"golang.org/x/crypto/pbkdf2"
)

// IntegrityField is the document field holding the integrity tag.
const IntegrityField = "_integrity_hash"

var (
	// defaultIntegrityKey is public and only detects accidental corruption.
	defaultIntegrityKey = []byte("macos-fingerprint-integrity-v1")

	integritySalt = []byte("macos-fingerprint-hmac-salt-v1")
)

// integrityKey returns the HMAC key for password, or the default key when empty.
func integrityKey(password string) []byte {
	if password == "" {
		return defaultIntegrityKey
	}
	return pbkdf2.Key([]byte(password), integritySalt, defaults.KDFIterations, defaults.KeyLength, sha256.New)
}

// IntegrityTag returns the hex HMAC-SHA256 of the canonical document.
// Any existing integrity field is excluded.
func IntegrityTag(doc document.Value, password string) string {
	mac := hmac.New(sha256.New, integrityKey(password))
	mac.Write(doc.Without(IntegrityField).Canonical())
	return hex.EncodeToString(mac.Sum(nil))
}

// Seal returns doc with a freshly computed integrity field.
func Seal(doc document.Value, password string) document.Value {
	return doc.Without(IntegrityField).With(IntegrityField, document.Str(IntegrityTag(doc, password)))
}

// Integrity is the outcome of checking a document's integrity tag.
type Integrity int

const (
	// IntegrityAbsent means the document carries no tag.
	IntegrityAbsent Integrity = iota
	// IntegrityVerified means the tag matched.
	IntegrityVerified
	// IntegrityMismatch means the tag did not match; the content may be corrupted or edited.
	IntegrityMismatch
	// IntegrityNotApplicable means the document was encrypted and authenticated by the cipher.
	IntegrityNotApplicable
)

// String returns the lowercase status name.
func (i Integrity) String() string {
	switch i {
	case IntegrityVerified:
		return "verified"
	case IntegrityMismatch:
		return "mismatch"
	case IntegrityNotApplicable:
		return "encrypted"
	default:
		return "absent"
	}
}

// Verify checks doc's integrity field and returns the document without it.
func Verify(doc document.Value, password string) (document.Value, Integrity) {
	tag, ok := doc.Get(IntegrityField)
	if !ok {
		return doc, IntegrityAbsent
	}
	stripped := doc.Without(IntegrityField)

	stored, _ := tag.AsString()
	expected := IntegrityTag(stripped, password)
	if !hmac.Equal([]byte(stored), []byte(expected)) {
		return stripped, IntegrityMismatch
	}
	return stripped, IntegrityVerified
}

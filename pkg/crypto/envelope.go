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
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/macfp/macfp/pkg/defaults"
	"github.com/macfp/macfp/pkg/document"
	"github.com/macfp/macfp/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

// EnvelopeVersion is the format version written into new envelopes.
const EnvelopeVersion = "1.0"

// Envelope field names.
const (
	FieldEncryptedData = "encrypted_data"
	FieldNonce         = "nonce"
	FieldSalt          = "salt"
	FieldVersion       = "version"
)

var (
	// ErrDecryption is returned for every decryption failure.
	ErrDecryption = errors.New(errors.ErrCodeDecryption, "decryption failed")

	// ErrPasswordRequired is returned when encryption or decryption is attempted without a password.
	ErrPasswordRequired = errors.New(errors.ErrCodeInvalidRequest,
		"a password is required: without it encrypted data cannot be decrypted")
)

// Envelope is the at-rest form of an encrypted fingerprint.
type Envelope struct {
	EncryptedData string `json:"encrypted_data" yaml:"encrypted_data"`
	Nonce         string `json:"nonce" yaml:"nonce"`
	Salt          string `json:"salt" yaml:"salt"`
	Version       string `json:"version" yaml:"version"`
}

// Document returns the envelope as a document for persistence.
func (e *Envelope) Document() document.Value {
	return document.StringMap(map[string]string{
		FieldEncryptedData: e.EncryptedData,
		FieldNonce:         e.Nonce,
		FieldSalt:          e.Salt,
		FieldVersion:       e.Version,
	})
}

// IsEnvelope reports whether v looks like an encrypted envelope.
func IsEnvelope(v document.Value) bool {
	return v.Has(FieldEncryptedData) && v.Has(FieldNonce) && v.Has(FieldSalt)
}

// EnvelopeFrom extracts an envelope from a loaded document.
func EnvelopeFrom(v document.Value) (*Envelope, error) {
	if !IsEnvelope(v) {
		return nil, errors.Wrap(errors.ErrCodeDecryption, "decryption failed",
			fmt.Errorf("document is not an encrypted envelope"))
	}
	field := func(name string) string {
		f, _ := v.Get(name)
		s, _ := f.AsString()
		return s
	}
	return &Envelope{
		EncryptedData: field(FieldEncryptedData),
		Nonce:         field(FieldNonce),
		Salt:          field(FieldSalt),
		Version:       field(FieldVersion),
	}, nil
}

// deriveKey derives an AES-256 key from password and salt.
func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, defaults.KDFIterations, defaults.KeyLength, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aead, nil
}

// Encrypt seals the canonical serialization of doc under a password-derived key.
func Encrypt(doc document.Value, password string) (*Envelope, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	salt := make([]byte, defaults.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "generating salt", err)
	}
	nonce := make([]byte, defaults.NonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "generating nonce", err)
	}

	aead, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "initializing cipher", err)
	}
	ciphertext := aead.Seal(nil, nonce, doc.Canonical(), nil)

	return &Envelope{
		EncryptedData: base64.StdEncoding.EncodeToString(ciphertext),
		Nonce:         base64.StdEncoding.EncodeToString(nonce),
		Salt:          base64.StdEncoding.EncodeToString(salt),
		Version:       EnvelopeVersion,
	}, nil
}

// Decrypt opens an envelope. Every failure is reported as ErrDecryption.
func Decrypt(env *Envelope, password string) (document.Value, error) {
	if password == "" {
		return document.Value{}, ErrPasswordRequired
	}
	if env == nil {
		return document.Value{}, decryptionFailed(fmt.Errorf("envelope is nil"))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.EncryptedData)
	if err != nil {
		return document.Value{}, decryptionFailed(fmt.Errorf("decoding ciphertext: %w", err))
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return document.Value{}, decryptionFailed(fmt.Errorf("decoding nonce: %w", err))
	}
	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return document.Value{}, decryptionFailed(fmt.Errorf("decoding salt: %w", err))
	}
	if len(nonce) != defaults.NonceLength {
		return document.Value{}, decryptionFailed(fmt.Errorf("invalid nonce length %d", len(nonce)))
	}

	aead, err := newGCM(deriveKey(password, salt))
	if err != nil {
		return document.Value{}, decryptionFailed(err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return document.Value{}, decryptionFailed(err)
	}

	doc, err := document.Parse(plaintext)
	if err != nil {
		return document.Value{}, decryptionFailed(err)
	}
	return doc, nil
}

func decryptionFailed(cause error) error {
	return errors.Wrap(errors.ErrCodeDecryption, "decryption failed", cause)
}

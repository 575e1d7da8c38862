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


package storage

import (
	"log/slog"

	"github.com/macfp/macfp/pkg/crypto"
	"github.com/macfp/macfp/pkg/defaults"
	"github.com/macfp/macfp/pkg/document"
	"github.com/macfp/macfp/pkg/errors"
	"github.com/macfp/macfp/pkg/fingerprint"
)

const indent = "  "

type options struct {
	encrypt   bool
	encrypted bool
	password  string
}

// Option configures Save and Load.
type Option func(*options)

// WithEncryption makes Save write an encrypted envelope. A password is required.
func WithEncryption(enabled bool) Option {
	return func(o *options) {
		o.encrypt = enabled
	}
}

// WithEncrypted makes Load require an encrypted envelope.
// Envelopes are decrypted without it too.
func WithEncrypted(required bool) Option {
	return func(o *options) {
		o.encrypted = required
	}
}

// WithPassword sets the password used for encryption and integrity tags.
func WithPassword(password string) Option {
	return func(o *options) {
		o.password = password
	}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Encode returns the on-disk bytes for fp.
func Encode(fp *fingerprint.Fingerprint, opts ...Option) ([]byte, error) {
	if fp == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "fingerprint is nil")
	}
	o := newOptions(opts)

	var doc document.Value
	if o.encrypt {
		env, err := crypto.Encrypt(fp.Document(), o.password)
		if err != nil {
			return nil, err
		}
		doc = env.Document()
	} else {
		doc = crypto.Seal(fp.Document(), o.password)
	}

	data, err := doc.Indent(indent)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode fingerprint", err)
	}
	return data, nil
}

// Save writes fp to path, either sealed with an integrity tag or encrypted.
func Save(path string, fp *fingerprint.Fingerprint, opts ...Option) error {
	data, err := Encode(fp, opts...)
	if err != nil {
		return err
	}
	if err := WriteFile(path, data); err != nil {
		return err
	}
	slog.Debug("fingerprint saved", "path", path, "bytes", len(data))
	return nil
}

// Export writes fp unencrypted with the default integrity key.
func Export(path string, fp *fingerprint.Fingerprint) error {
	return Save(path, fp)
}

// Decode parses on-disk bytes into a fingerprint. Envelopes are decrypted
// with the configured password; plain documents have their integrity tag
// checked and removed.
func Decode(data []byte, opts ...Option) (*fingerprint.Fingerprint, crypto.Integrity, error) {
	o := newOptions(opts)

	if err := ValidateJSON(data); err != nil {
		return nil, crypto.IntegrityAbsent, err
	}
	doc, err := document.Parse(data)
	if err != nil {
		return nil, crypto.IntegrityAbsent, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid JSON", err)
	}

	if o.encrypted || crypto.IsEnvelope(doc) {
		env, err := crypto.EnvelopeFrom(doc)
		if err != nil {
			return nil, crypto.IntegrityAbsent, err
		}
		plain, err := crypto.Decrypt(env, o.password)
		if err != nil {
			return nil, crypto.IntegrityAbsent, err
		}
		fp, err := fingerprint.New(plain)
		if err != nil {
			return nil, crypto.IntegrityAbsent, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid fingerprint", err)
		}
		return fp, crypto.IntegrityNotApplicable, nil
	}

	stripped, status := crypto.Verify(doc, o.password)
	fp, err := fingerprint.New(stripped)
	if err != nil {
		return nil, status, errors.Wrap(errors.ErrCodeInvalidRequest, "invalid fingerprint", err)
	}
	return fp, status, nil
}

// Load reads and decodes the fingerprint at path. An integrity mismatch is
// logged as a warning and the fingerprint is still returned.
func Load(path string, opts ...Option) (*fingerprint.Fingerprint, crypto.Integrity, error) {
	data, err := readLimited(path, defaults.MaxJSONSize)
	if err != nil {
		return nil, crypto.IntegrityAbsent, err
	}

	fp, status, err := Decode(data, opts...)
	if err != nil {
		return nil, status, err
	}
	if status == crypto.IntegrityMismatch {
		slog.Warn("integrity check failed, data may be corrupted or edited", "path", path)
	}
	slog.Debug("fingerprint loaded", "path", path, "integrity", status.String())
	return fp, status, nil
}

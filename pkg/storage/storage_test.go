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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/macfp/macfp/pkg/crypto"
	"github.com/macfp/macfp/pkg/document"
	macerrors "github.com/macfp/macfp/pkg/errors"
	"github.com/macfp/macfp/pkg/fingerprint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFingerprint(t *testing.T) *fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.New(document.MustParse(`{
		"timestamp": "2024-05-01T09:30:00.000000",
		"collectors": {
			"InstalledAppsCollector": {"system": ["Safari.app", "Café.app"], "user": []},
			"XcodeCollector": {"error": "command not found: xcode-select"}
		}
	}`))
	require.NoError(t, err)
	return fp
}

func TestSanitizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "empty", path: "", wantErr: true},
		{name: "blank", path: "  ", wantErr: true},
		{name: "traversal", path: "../etc/passwd", wantErr: true},
		{name: "embedded traversal", path: "/tmp/a/../b", wantErr: true},
		{name: "device", path: "/dev/null", wantErr: true},
		{name: "proc", path: "/proc/self/environ", wantErr: true},
		{name: "absolute", path: "/tmp/fp.json", want: "/tmp/fp.json"},
		{name: "home", path: "~/fp.json", want: filepath.Join(home, "fp.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizePathRelative(t *testing.T) {
	got, err := SanitizePath("fp.json")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "fp.json", filepath.Base(got))
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: `{"a": [1, 2]}`},
		{name: "empty", data: "", wantErr: true},
		{name: "whitespace", data: " \n", wantErr: true},
		{name: "many braces", data: strings.Repeat("{", 1001), wantErr: true},
		{name: "many brackets", data: strings.Repeat("[", 1001), wantErr: true},
		{name: "at limit", data: strings.Repeat("{", 1000) + strings.Repeat("[", 1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON([]byte(tt.data))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeInvalidRequest))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestWriteFileCreatesPrivateFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a", "b", "out.json")

	require.NoError(t, WriteFile(path, []byte("one")))
	require.NoError(t, WriteFile(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadFile(filepath.Join(dir, "missing"))
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeNotFound))

	_, err = ReadFile(dir)
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeInvalidRequest))

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe}, 0o600))
	_, err = ReadFile(bad)
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeInvalidRequest))

	good := filepath.Join(dir, "good")
	require.NoError(t, os.WriteFile(good, []byte("hello"), 0o600))
	data, err := ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSaveLoadUnencrypted(t *testing.T) {
	fp := sampleFingerprint(t)
	path := filepath.Join(t.TempDir(), "baseline.json")

	require.NoError(t, Save(path, fp))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"_integrity_hash": "`)
	assert.Contains(t, string(raw), `"Caf\u00e9.app"`)
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"_integrity_hash\""))

	loaded, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, crypto.IntegrityVerified, status)
	assert.True(t, fp.Document().Equal(loaded.Document()))
	assert.Equal(t, fp.Hash(), loaded.Hash())
}

func TestSaveLoadWithPasswordTag(t *testing.T) {
	fp := sampleFingerprint(t)
	path := filepath.Join(t.TempDir(), "fp.json")

	require.NoError(t, Save(path, fp, WithPassword("pw")))

	_, status, err := Load(path, WithPassword("pw"))
	require.NoError(t, err)
	assert.Equal(t, crypto.IntegrityVerified, status)

	loaded, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, crypto.IntegrityMismatch, status)
	assert.True(t, fp.Document().Equal(loaded.Document()))
}

func TestLoadTamperedStillReturnsDocument(t *testing.T) {
	fp := sampleFingerprint(t)
	path := filepath.Join(t.TempDir(), "fp.json")
	require.NoError(t, Save(path, fp))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.Replace(string(raw), "Safari.app", "Malware.app", 1)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o600))

	loaded, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, crypto.IntegrityMismatch, status)
	apps, ok := loaded.Collector("InstalledAppsCollector")
	require.True(t, ok)
	system, _ := apps.Get("system")
	assert.Contains(t, string(system.Canonical()), "Malware.app")
}

func TestLoadWithoutTag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp": "t", "collectors": {}}`), 0o600))

	_, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, crypto.IntegrityAbsent, status)
}

func TestSaveLoadEncrypted(t *testing.T) {
	fp := sampleFingerprint(t)
	path := filepath.Join(t.TempDir(), "secret.json")

	require.NoError(t, Save(path, fp, WithEncryption(true), WithPassword("hunter2")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Safari")
	assert.Contains(t, string(raw), `"version": "1.0"`)

	loaded, status, err := Load(path, WithEncrypted(true), WithPassword("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, crypto.IntegrityNotApplicable, status)
	assert.True(t, fp.Document().Equal(loaded.Document()))

	loaded, _, err = Load(path, WithPassword("hunter2"))
	require.NoError(t, err, "envelopes are detected without the encrypted flag")
	assert.NotNil(t, loaded)

	loaded, _, err = Load(path, WithPassword("wrong"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, crypto.ErrDecryption))
	assert.Nil(t, loaded)

	_, _, err = Load(path)
	assert.True(t, errors.Is(err, crypto.ErrPasswordRequired))
}

func TestSaveEncryptedRequiresPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.json")
	err := Save(path, sampleFingerprint(t), WithEncryption(true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, crypto.ErrPasswordRequired))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadEncryptedFlagOnPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.json")
	require.NoError(t, Save(path, sampleFingerprint(t)))

	_, _, err := Load(path, WithEncrypted(true), WithPassword("pw"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, crypto.ErrDecryption))
}

func TestLoadRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		code    macerrors.ErrorCode
	}{
		{"empty", "", macerrors.ErrCodeInvalidRequest},
		{"malformed", `{"timestamp": `, macerrors.ErrCodeInvalidRequest},
		{"not an object", `["a"]`, macerrors.ErrCodeInvalidRequest},
		{"nested", strings.Repeat("[", 1001) + strings.Repeat("]", 1001), macerrors.ErrCodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			fp, _, err := Load(path)
			require.Error(t, err)
			assert.Nil(t, fp)
			assert.True(t, macerrors.HasCode(err, tt.code))
		})
	}

	_, _, err := Load(filepath.Join(dir, "missing.json"))
	assert.True(t, macerrors.HasCode(err, macerrors.ErrCodeNotFound))
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, Export(path, sampleFingerprint(t)))

	_, status, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, crypto.IntegrityVerified, status)
}

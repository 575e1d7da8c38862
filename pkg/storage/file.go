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
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/macfp/macfp/pkg/defaults"
	"github.com/macfp/macfp/pkg/errors"
)

// SanitizePath expands "~" and returns the absolute form of path.
// Empty paths, paths containing "..", and device or proc paths are rejected.
func SanitizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New(errors.ErrCodeInvalidRequest, "path cannot be empty")
	}
	if strings.Contains(path, "..") || strings.HasPrefix(path, "/dev/") || strings.HasPrefix(path, "/proc/") {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest, "invalid path",
			map[string]any{"path": path})
	}

	expanded := path
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, "failed to resolve home directory", err)
		}
		expanded = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidRequest, "failed to resolve path", err)
	}
	return abs, nil
}

// ReadFile reads a UTF-8 text file of at most defaults.MaxReadFileSize bytes.
func ReadFile(path string) ([]byte, error) {
	return readLimited(path, defaults.MaxReadFileSize)
}

func readLimited(path string, limit int64) ([]byte, error) {
	clean, err := SanitizePath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(clean)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewWithContext(errors.ErrCodeNotFound, "file not found",
				map[string]any{"path": clean})
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to stat %s", clean), err)
	}
	if info.IsDir() {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "path is a directory",
			map[string]any{"path": clean})
	}
	if info.Size() > limit {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "file too large",
			map[string]any{"path": clean, "size": info.Size(), "max": limit})
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to read %s", clean), err)
	}
	if !utf8.Valid(data) {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "file is not valid UTF-8",
			map[string]any{"path": clean})
	}
	return data, nil
}

// WriteFile writes data to path with mode defaults.FileMode, creating
// parent directories with defaults.DirMode. The content is written to a
// uniquely named temporary file in the same directory and renamed into
// place, so readers never observe a partial file.
func WriteFile(path string, data []byte) error {
	clean, err := SanitizePath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(clean)
	if err := os.MkdirAll(dir, defaults.DirMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmpName := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(clean), uuid.NewString()))
	tmp, err := os.OpenFile(tmpName, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaults.FileMode)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create temporary file", err)
	}
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to write %s", clean), err)
	}
	if err := tmp.Chmod(defaults.FileMode); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to set permissions on %s", clean), err)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to sync %s", clean), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to close %s", clean), err)
	}
	if err := os.Rename(tmpName, clean); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to replace %s", clean), err)
	}
	committed = true
	return nil
}

// ValidateJSON rejects input that is empty, larger than defaults.MaxJSONSize,
// or has more than defaults.MaxJSONNesting opening braces or brackets.
func ValidateJSON(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "JSON input is empty")
	}
	if len(data) > defaults.MaxJSONSize {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "JSON input too large",
			map[string]any{"size": len(data), "max": defaults.MaxJSONSize})
	}
	if bytes.Count(data, []byte("{")) > defaults.MaxJSONNesting ||
		bytes.Count(data, []byte("[")) > defaults.MaxJSONNesting {
		return errors.New(errors.ErrCodeInvalidRequest, "JSON input has excessive nesting")
	}
	return nil
}

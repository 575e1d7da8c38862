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


package file

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func TestNewParser(t *testing.T) {
	p := NewParser()
	if p.delimiter != "\n" {
		t.Errorf("delimiter = %q, want newline", p.delimiter)
	}
	if p.maxSize != 10*1024*1024 {
		t.Errorf("maxSize = %d, want 10MiB", p.maxSize)
	}
	if !p.skipComments {
		t.Error("skipComments should default to true")
	}

	p = NewParser(WithDelimiter(";"), WithMaxSize(16), WithSkipComments(false), WithCommentPrefix("//"))
	if p.delimiter != ";" || p.maxSize != 16 || p.skipComments || p.commentPrefix != "//" {
		t.Errorf("options not applied: %+v", p)
	}
}

func TestGetLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    []Option
		want    []string
	}{
		{
			name:    "hosts with comments skipped",
			content: "##\n# Host Database\n127.0.0.1\tlocalhost\n\n::1 localhost  \n",
			want:    []string{"127.0.0.1\tlocalhost", "::1 localhost"},
		},
		{
			name:    "hosts with comments kept",
			content: "# Host Database\n127.0.0.1\tlocalhost\n",
			opts:    []Option{WithSkipComments(false)},
			want:    []string{"# Host Database", "127.0.0.1\tlocalhost"},
		},
		{
			name:    "leading indentation preserved",
			content: "Host *\n    ForwardAgent no\r\n",
			want:    []string{"Host *", "    ForwardAgent no"},
		},
		{
			name:    "only blank lines",
			content: "\n\n  \n",
			want:    []string{},
		},
		{
			name:    "custom delimiter",
			content: "a;b;;c",
			opts:    []Option{WithDelimiter(";")},
			want:    []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			got, err := NewParser(tt.opts...).GetLines(path)
			if err != nil {
				t.Fatalf("GetLines() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetLines_EmptyPath(t *testing.T) {
	if _, err := NewParser().GetLines(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestGetLines_NonExistentFile(t *testing.T) {
	_, err := NewParser().GetLines(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestGetLines_TooLarge(t *testing.T) {
	path := writeFile(t, strings.Repeat("x", 64))
	_, err := NewParser(WithMaxSize(32)).GetLines(path)
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum size") {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestGetLines_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "ok\n\xff\xfe\n")
	if _, err := NewParser().GetLines(path); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestGetLines_Directory(t *testing.T) {
	if _, err := NewParser().GetLines(t.TempDir()); err == nil {
		t.Error("expected error for directory")
	}
}

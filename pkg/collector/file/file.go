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
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/macfp/macfp/pkg/defaults"
	"github.com/macfp/macfp/pkg/errors"
)

// Options for configuring the Parser.
type Option func(*Parser)

// Parser parses text files with customizable settings.
type Parser struct {
	delimiter     string
	maxSize       int64
	skipComments  bool
	commentPrefix string
}

// WithDelimiter sets the delimiter used to split entries in the file.
// Default is newline ("\n").
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is defaults.MaxReadFileSize.
func WithMaxSize(size int64) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether to skip comment lines in the file.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithCommentPrefix sets the prefix marking a comment line. Default is "#".
func WithCommentPrefix(prefix string) Option {
	return func(p *Parser) {
		p.commentPrefix = prefix
	}
}

// NewParser creates a new file parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:     "\n",
		maxSize:       defaults.MaxReadFileSize,
		skipComments:  true,
		commentPrefix: "#",
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads the file at path and splits its content into lines.
// Lines are trimmed of trailing whitespace; blank lines are dropped.
func (p *Parser) GetLines(path string) ([]string, error) {
	b, err := p.read(path)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(string(b)), nil
}

// ParseLines splits already loaded content the same way GetLines does.
func (p *Parser) ParseLines(content string) []string {
	parts := strings.Split(content, p.delimiter)

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimRight(part, " \t\r")
		if strings.TrimSpace(clean) == "" {
			continue
		}
		if p.skipComments && p.commentPrefix != "" &&
			strings.HasPrefix(strings.TrimSpace(clean), p.commentPrefix) {
			continue
		}
		result = append(result, clean)
	}
	return result
}

func (p *Parser) read(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "file path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, fmt.Sprintf("file %q not found", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to stat file %q", path), err)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("%q is a directory", path))
	}
	if info.Size() > p.maxSize {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("file %q exceeds maximum size of %d bytes", path, p.maxSize))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, fmt.Sprintf("failed to read file %q", path), err)
	}
	if int64(len(b)) > p.maxSize {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("file %q exceeds maximum size of %d bytes", path, p.maxSize))
	}
	if !utf8.Valid(b) {
		return nil, errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("content of file %q is not valid UTF-8", path))
	}

	slog.Debug("read file", slog.String("path", path), slog.Int("bytes", len(b)))
	return b, nil
}

// IsNotFound reports whether err means the file does not exist.
func IsNotFound(err error) bool {
	return errors.HasCode(err, errors.ErrCodeNotFound)
}

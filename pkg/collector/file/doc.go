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


// Package file reads text files for file-backed collectors.
//
// Parser enforces a size ceiling (10 MiB by default) and UTF-8 validity
// before splitting content into lines. Blank lines are dropped; comment
// lines are dropped unless WithSkipComments(false) is given, which the hosts
// file collector uses so comments stay visible in the fingerprint.
//
// # Usage
//
//	p := file.NewParser(file.WithSkipComments(false))
//	lines, err := p.GetLines("/etc/hosts")
//	if err != nil {
//	    return document.Value{}, err
//	}
//
// A missing file yields an error with code ErrCodeNotFound so collectors
// that treat absent files as empty can distinguish it from read failures.
//
// Parsers hold no mutable state and are safe for concurrent use.
package file

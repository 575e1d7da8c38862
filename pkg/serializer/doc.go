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


// Package serializer writes command output in JSON, YAML or table form.
//
//   - JSON: indented, without HTML escaping
//   - YAML: two-space indentation, gopkg.in/yaml.v3
//   - Table: FIELD/VALUE rows with flattened dotted keys
//
// Usage:
//
//	w, err := serializer.NewFileWriter(serializer.FormatYAML, path)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	if err := w.Serialize(ctx, report); err != nil {
//		return err
//	}
//
// Values that expose a Document method, such as fingerprints and
// comparison reports, are flattened through their document form in table
// output. Files are created with owner-only permissions.
package serializer

/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// Namer lets an extension choose the name it is registered under.
//
// # Overview
//
// Every candidate of an extension point carries a name. The name keys
// overlay overrides, duplicate detection and discovery diagnostics, so it
// must be stable across program executions. When an extension value does
// not implement Namer the registration helpers fall back to the class name
// of its type ("<pkgpath>.<Type>") or, for factory functions, to the
// function's symbol name.
//
// # Contract
//
//   - ExtensionName MUST be non-empty and deterministic for a concrete type.
//   - ExtensionName MUST NOT depend on mutable instance state.
//   - ExtensionName MUST be safe for concurrent calls and MUST NOT block.
type Namer interface {
	// ExtensionName returns the registration name of the extension.
	ExtensionName() string
}

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

import "reflect"

// Registry maps extension points to their single Entry.
// Implementations must be safe for concurrent use.
type Registry interface {
	// Entry returns the entry for point, creating it on first use.
	// The same Entry is returned for the same point for the lifetime
	// of the Registry.
	Entry(point reflect.Type) Entry
	// Points returns the extension points that currently have an entry.
	Points() []reflect.Type
	// Count returns the number of entries.
	Count() int
	// Refresh marks every entry unpopulated so the next read re-discovers.
	Refresh()
	// Reset drops every entry.
	Reset()
	// Generation identifies this registry instance in diagnostics.
	Generation() string
}

// Entry is the cached, ordered instance list of one extension point.
type Entry interface {
	// Point returns the extension point this entry serves.
	Point() reflect.Type
	// Snapshot returns the ordered instances, discovering them first if the
	// entry is not populated. The returned slice must not be modified.
	Snapshot() []any
	// Len returns len(Snapshot()).
	Len() int
	// Populated reports whether discovery has run in the current cycle.
	Populated() bool
	// Add appends a manually supplied instance.
	Add(v any) error
	// AddUnless appends v unless exists reports true for an instance
	// already present. The check and the append are atomic.
	AddUnless(v any, exists func(any) bool) (bool, error)
	// Remove removes the first instance identical or equal to v.
	Remove(v any) bool
	// RemoveAll removes every instance also present in vs and reports
	// whether the entry changed.
	RemoveAll(vs []any) bool
	// Refresh marks the entry unpopulated. Instances already present are
	// kept; only newly declared candidates are instantiated.
	Refresh()
	// Manual returns the manually added instances still present.
	Manual() []any
	// Failures returns the failures of the most recent discovery pass.
	Failures() []error
}

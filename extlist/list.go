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

// Package extlist provides typed views over registry entries: List for
// plain extension points and Descriptors for descriptor points.
//
// Views hold no state of their own. Every view over the same entry observes
// the same instances, and any mutation through one is visible to all.
package extlist

import (
	"iter"
	"reflect"

	"dirpx.dev/extpoint/apis"
	uref "dirpx.dev/extpoint/utils/reflect"
)

// List is a typed view over the instances of one extension point.
// The first read triggers discovery when the entry is not populated.
type List[T any] struct {
	e apis.Entry
}

// New returns a view of e typed as T. Instances in e that are not a T are
// skipped by typed reads.
func New[T any](e apis.Entry) List[T] {
	return List[T]{e: e}
}

// Entry returns the underlying registry entry.
func (l List[T]) Entry() apis.Entry { return l.e }

func (l List[T]) Len() int { return len(l.Items()) }

// At returns the i-th instance. It panics if i is out of range.
func (l List[T]) At(i int) T { return l.Items()[i] }

// Items returns a copy of the instances in order.
func (l List[T]) Items() []T {
	snap := l.e.Snapshot()
	out := make([]T, 0, len(snap))
	for _, v := range snap {
		if t, ok := v.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// All iterates over a snapshot of the instances taken when iteration starts.
func (l List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range l.e.Snapshot() {
			t, ok := v.(T)
			if !ok {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Get returns the instance whose class is class.
func (l List[T]) Get(class reflect.Type) (T, bool) {
	for v := range l.All() {
		if uref.IsClass(v, class) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Instance returns the instance of l whose class is C.
func Instance[C, T any](l List[T]) (C, bool) {
	class := reflect.TypeFor[C]()
	for v := range l.All() {
		if !uref.IsClass(v, class) {
			continue
		}
		if c, ok := any(v).(C); ok {
			return c, true
		}
	}
	var zero C
	return zero, false
}

func (l List[T]) Contains(v T) bool {
	for _, x := range l.e.Snapshot() {
		if uref.Same(x, v) {
			return true
		}
	}
	return false
}

// Add appends v as a manually supplied instance. It is not re-sorted by
// ordinal until the entry is discovered again.
func (l List[T]) Add(v T) error { return l.e.Add(v) }

func (l List[T]) Remove(v T) bool { return l.e.Remove(v) }

// RemoveAll removes every instance present in vs and reports whether the
// list changed.
func (l List[T]) RemoveAll(vs []T) bool {
	anys := make([]any, len(vs))
	for i, v := range vs {
		anys[i] = v
	}
	return l.e.RemoveAll(anys)
}

// Refresh re-runs discovery on the next read, keeping instances already
// present and loading newly declared ones.
func (l List[T]) Refresh() { l.e.Refresh() }

// Failures returns the discovery failures of the last pass.
func (l List[T]) Failures() []error { return l.e.Failures() }

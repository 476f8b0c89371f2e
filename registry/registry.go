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

package registry

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/extpoint/apis"
)

// New constructs a Registry that discovers extensions through f according
// to cfg. A nil f discovers nothing.
func New(cfg apis.Config, f apis.Finder) *Registry {
	return &Registry{cfg: cfg, finder: f, gen: uuid.NewString(), waits: newWaitGraph()}
}

// Registry maps extension points to their entries. Entries are created on
// first use and the same entry is returned for a point until Reset.
type Registry struct {
	cfg    apis.Config
	finder apis.Finder
	gen    string
	waits  *waitGraph

	// mu guards entry creation, order and count.
	mu sync.Mutex
	// m maps reflect.Type to *entry.
	m     sync.Map
	order []reflect.Type
}

var _ apis.Registry = (*Registry)(nil)

// Entry returns the entry for point, creating it atomically on first use.
// It panics with ErrNilPoint if point is nil.
func (r *Registry) Entry(point reflect.Type) apis.Entry {
	if point == nil {
		panic(ErrNilPoint)
	}
	// Fast path without locking.
	if e, ok := r.m.Load(point); ok {
		return e.(*entry)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	if e, ok := r.m.Load(point); ok {
		return e.(*entry)
	}
	e := newEntry(point, r)
	r.m.Store(point, e)
	r.order = append(r.order, point)
	return e
}

// Points returns the points with an entry in creation order.
func (r *Registry) Points() []reflect.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]reflect.Type(nil), r.order...)
}

// Count returns the number of entries.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Refresh marks every entry unpopulated.
func (r *Registry) Refresh() {
	r.m.Range(func(_, e any) bool {
		e.(*entry).Refresh()
		return true
	})
}

// Reset drops every entry. Entries already handed out keep working but are
// no longer reachable through the registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Clear()
	r.order = nil
}

func (r *Registry) Generation() string { return r.gen }

// Adopt carries manually added instances over to point without triggering
// discovery. They are placed as if added right after the next discovery.
func (r *Registry) Adopt(point reflect.Type, vs ...any) error {
	return r.Entry(point).(*entry).adopt(vs)
}

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

// Package manifest implements the registration protocol of extension
// implementations.
//
// Implementations declare themselves, usually from an init function, under
// the extension point they satisfy and with an optional ordinal:
//
//	func init() {
//		manifest.Func[Animal](func() Animal { return &Dog{} })
//		manifest.Value[Car](mazda, manifest.Ordinal(2))
//		manifest.Descriptor[Fish](taiDescriptor{})
//	}
//
// Registration only records a factory; nothing is instantiated until the
// registry discovers the point. Programmer errors (nil point, nil factory,
// duplicate names) panic at registration time, following database/sql.Register.
package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/extpoint/apis"
)

var (
	// ErrNilPoint is returned when a candidate has no extension point.
	ErrNilPoint = errors.New("extpoint(manifest): nil extension point")
	// ErrNilFactory is returned when a candidate has no factory.
	ErrNilFactory = errors.New("extpoint(manifest): nil factory")
	// ErrEmptyName is returned when a candidate has no name.
	ErrEmptyName = errors.New("extpoint(manifest): empty candidate name")
	// ErrDuplicateName is returned when a name is registered twice for a point.
	ErrDuplicateName = errors.New("extpoint(manifest): duplicate candidate name")
)

// Default is the process-wide manifest read by the default finder.
var Default = New()

// Manifest records declared candidates per extension point, in
// declaration order. It is safe for concurrent use.
type Manifest struct {
	mu     sync.RWMutex
	points map[reflect.Type][]apis.Candidate
	order  []reflect.Type
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{points: make(map[reflect.Type][]apis.Candidate)}
}

// Add records c. Seq is ignored; declaration order is assigned by Candidates.
func (m *Manifest) Add(c apis.Candidate) error {
	if c.Point == nil {
		return ErrNilPoint
	}
	if c.New == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, c.Name)
	}
	if c.Name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cands, seen := m.points[c.Point]
	for _, old := range cands {
		if old.Name == c.Name {
			return fmt.Errorf("%w: %s for %s", ErrDuplicateName, c.Name, c.Point)
		}
	}
	if !seen {
		m.order = append(m.order, c.Point)
	}
	m.points[c.Point] = append(cands, c)

	slog.Debug("Registering extension.", "point", c.Point.String(), "name", c.Name, "ordinal", c.Ordinal)
	return nil
}

// Register is like Add but panics on error. Call it from init functions.
func (m *Manifest) Register(c apis.Candidate) {
	if err := m.Add(c); err != nil {
		panic(err)
	}
}

// Candidates returns a copy of the candidates declared for point with Seq
// set to their declaration order.
func (m *Manifest) Candidates(point reflect.Type) []apis.Candidate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := slices.Clone(m.points[point])
	for i := range out {
		out[i].Seq = i
	}
	return out
}

// Names returns the candidate names declared for point.
func (m *Manifest) Names(point reflect.Type) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cands := m.points[point]
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	return names
}

// Points returns every point with at least one candidate, in the order
// the points were first registered.
func (m *Manifest) Points() []reflect.Type {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.order)
}

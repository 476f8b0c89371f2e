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

// Package overlay lets operators disable or re-order discovered components
// without rebuilding. An overlay lists components by candidate name:
//
//	component "example.com/cars.Toyota" {
//	  ordinal = 10
//	}
//
//	component "example.com/cars.honda" {
//	  enabled = false
//	}
//
// The same document in YAML:
//
//	components:
//	  - name: example.com/cars.Toyota
//	    ordinal: 10
//	  - name: example.com/cars.honda
//	    enabled: false
package overlay

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/internal/suggest"
)

var (
	// ErrUnknownFormat is returned by Load for an unrecognised file extension.
	ErrUnknownFormat = errors.New("extpoint(overlay): unknown file format")
	// ErrDuplicateComponent is returned when a component is listed twice.
	ErrDuplicateComponent = errors.New("extpoint(overlay): duplicate component")
	// ErrEmptyName is returned for a component without a name.
	ErrEmptyName = errors.New("extpoint(overlay): empty component name")
	// ErrUnknownComponent is matched by every *UnknownComponentError.
	ErrUnknownComponent = errors.New("extpoint(overlay): unknown component")
)

// Component overrides the discovery of one candidate. Nil fields leave the
// candidate unchanged.
type Component struct {
	Name    string `hcl:"name,label" yaml:"name"`
	Enabled *bool  `hcl:"enabled,optional" yaml:"enabled,omitempty"`
	Ordinal *int   `hcl:"ordinal,optional" yaml:"ordinal,omitempty"`
}

// Overlay is a set of component overrides. It is an apis.Filter.
type Overlay struct {
	Components []Component `hcl:"component,block" yaml:"components"`
}

var _ apis.Filter = (*Overlay)(nil)

// Apply drops disabled candidates and replaces overridden ordinals. The
// input slice is not modified.
func (o *Overlay) Apply(_ reflect.Type, cands []apis.Candidate) []apis.Candidate {
	if o == nil || len(o.Components) == 0 {
		return cands
	}
	byName := o.index()
	out := make([]apis.Candidate, 0, len(cands))
	for _, c := range cands {
		comp, ok := byName[c.Name]
		if !ok {
			out = append(out, c)
			continue
		}
		if comp.Enabled != nil && !*comp.Enabled {
			continue
		}
		if comp.Ordinal != nil {
			c.Ordinal = *comp.Ordinal
		}
		out = append(out, c)
	}
	return out
}

// UnknownComponentError reports a component name that matches no known
// candidate.
type UnknownComponentError struct {
	Name       string
	Suggestion string
}

func (e *UnknownComponentError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (did you mean %q?)", ErrUnknownComponent, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", ErrUnknownComponent, e.Name)
}

func (e *UnknownComponentError) Is(target error) bool { return target == ErrUnknownComponent }

// Check reports every component whose name is not in known, joined into one
// error. It returns nil when all names are known.
func (o *Overlay) Check(known []string) error {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	var errs []error
	for _, c := range o.Components {
		if !set[c.Name] {
			errs = append(errs, &UnknownComponentError{Name: c.Name, Suggestion: suggest.Closest(c.Name, known)})
		}
	}
	return errors.Join(errs...)
}

func (o *Overlay) validate() error {
	seen := make(map[string]bool, len(o.Components))
	for _, c := range o.Components {
		if c.Name == "" {
			return ErrEmptyName
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateComponent, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

func (o *Overlay) index() map[string]Component {
	m := make(map[string]Component, len(o.Components))
	for _, c := range o.Components {
		m[c.Name] = c
	}
	return m
}

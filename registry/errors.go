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
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNilPoint is raised when an entry is requested for a nil type.
	ErrNilPoint = errors.New("extpoint(registry): nil extension point")
	// ErrNilInstance is recorded when a candidate produces nil, and returned
	// when nil is added manually.
	ErrNilInstance = errors.New("extpoint(registry): nil instance")
	// ErrWrongType is recorded when a candidate produces a value that does
	// not implement the extension point, and returned for such manual adds.
	ErrWrongType = errors.New("extpoint(registry): instance does not implement extension point")
	// ErrCandidatePanic is recorded when a candidate factory panics.
	ErrCandidatePanic = errors.New("extpoint(registry): candidate panicked")
	// ErrCandidateTimeout is recorded when a candidate exceeds its budget.
	ErrCandidateTimeout = errors.New("extpoint(registry): candidate timed out")
	// ErrDuplicateDescriptor is recorded when a second descriptor for one
	// class is discovered, and returned for such manual adds.
	ErrDuplicateDescriptor = errors.New("extpoint(registry): class already has a descriptor")
	// ErrUninitialized is returned by mutations of an inert registry.
	ErrUninitialized = errors.New("extpoint(registry): environment not initialized")
)

// DiscoveryError describes one failure of a discovery pass. Candidate is
// empty when the finder itself failed.
type DiscoveryError struct {
	Point     reflect.Type
	Candidate string
	Err       error
}

func (e *DiscoveryError) Error() string {
	if e.Candidate == "" {
		return fmt.Sprintf("extpoint(registry): discovery for %s: %v", e.Point, e.Err)
	}
	return fmt.Sprintf("extpoint(registry): candidate %q for %s: %v", e.Candidate, e.Point, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

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

import (
	"context"
	"reflect"
)

// Candidate is one discoverable implementation of an extension point.
type Candidate struct {
	// Point is the extension point the candidate implements.
	Point reflect.Type
	// Name identifies the candidate in diagnostics and overlays.
	// It is unique per Point.
	Name string
	// Type is the implementing type, when it is known before instantiation.
	Type reflect.Type
	// Ordinal is the declared priority. Higher sorts earlier.
	Ordinal int
	// Seq is the declaration order, used to break ordinal ties.
	Seq int
	// New produces the instance. It may fail or panic; either is recorded
	// as a discovery failure for this candidate only.
	New func() (any, error)
}

// Finder enumerates the candidates declared for an extension point.
// Implementations may block on I/O and must be safe for concurrent use.
type Finder interface {
	// Find returns candidates for point in declaration order.
	Find(ctx context.Context, point reflect.Type) ([]Candidate, error)
}

// Filter rewrites the candidate set of a point before instantiation.
// A filter may drop candidates or change their ordinal; it must not
// mutate the slice it receives.
type Filter interface {
	Apply(point reflect.Type, cands []Candidate) []Candidate
}

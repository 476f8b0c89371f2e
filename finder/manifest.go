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

// Package finder provides the discovery collaborators that enumerate the
// candidates of an extension point.
package finder

import (
	"context"
	"reflect"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/manifest"
)

// NewManifest creates an apis.Finder that reads declared candidates from m.
func NewManifest(m *manifest.Manifest) apis.Finder {
	return &manifestFinder{m: m}
}

// manifestFinder reads the registration manifest. It never blocks.
type manifestFinder struct {
	m *manifest.Manifest
}

// Ensure manifestFinder implements apis.Finder.
var _ apis.Finder = (*manifestFinder)(nil)

// Find returns the candidates declared for point in declaration order.
func (f *manifestFinder) Find(ctx context.Context, point reflect.Type) ([]apis.Candidate, error) {
	if f.m == nil || point == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.m.Candidates(point), nil
}

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

package finder

import (
	"context"
	"reflect"

	"dirpx.dev/extpoint/apis"
)

// Static creates an apis.Finder over a fixed candidate list. Candidates
// are reported for their own Point only, in the given order.
func Static(cands ...apis.Candidate) apis.Finder {
	return staticFinder(cands)
}

type staticFinder []apis.Candidate

// Ensure staticFinder implements apis.Finder.
var _ apis.Finder = staticFinder(nil)

// Find filters the fixed list by point.
func (s staticFinder) Find(_ context.Context, point reflect.Type) ([]apis.Candidate, error) {
	var out []apis.Candidate
	for _, c := range s {
		if c.Point == point {
			c.Seq = len(out)
			out = append(out, c)
		}
	}
	return out, nil
}

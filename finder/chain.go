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
	"dirpx.dev/extpoint/internal/ctxlog"
)

// Chain constructs an apis.Finder that queries the given finders in order
// and concatenates their results. Nil finders are ignored. A finder that
// fails is logged and skipped; the others still contribute. Seq is
// renumbered so the combined list keeps declaration order across finders.
func Chain(finders ...apis.Finder) apis.Finder {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Finder, 0, len(finders))
	for _, f := range finders {
		if f != nil {
			out = append(out, f)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return chain{finders: out}
}

// chain is an immutable, order-preserving finder over a set of finders.
type chain struct {
	finders []apis.Finder
}

// Find runs every finder and merges their candidates.
func (c chain) Find(ctx context.Context, point reflect.Type) ([]apis.Candidate, error) {
	var out []apis.Candidate
	for i, f := range c.finders {
		cands, err := f.Find(ctx, point)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			ctxlog.FromContext(ctx).Warn("Finder failed, skipping.",
				"point", point.String(), "finder", i, "error", err)
			continue
		}
		for _, cand := range cands {
			cand.Seq = len(out)
			out = append(out, cand)
		}
	}
	return out, nil
}

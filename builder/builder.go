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

package builder

import (
	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/finder"
	"dirpx.dev/extpoint/registry"
)

// New creates a Builder whose registries discover through finders, in
// order.
func New(finders ...apis.Finder) apis.Builder {
	return &builder{finder: finder.Chain(finders...)}
}

type builder struct {
	finder apis.Finder
}

// BuildRegistry builds a new registry for cfg. When prev is given, the
// instances that were added to it by hand are carried over; discovered
// instances are not, they are discovered again under cfg.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg, b.finder)
	if prev == nil {
		return nreg
	}
	log := cfg.Log().With("generation", nreg.Generation(), "previous", prev.Generation())
	for _, point := range prev.Points() {
		manual := prev.Entry(point).Manual()
		if len(manual) == 0 {
			continue
		}
		if err := nreg.Adopt(point, manual...); err != nil {
			log.Warn("Dropping manually added extensions.", "point", point.String(), "error", err)
			continue
		}
		log.Debug("Migrated manually added extensions.", "point", point.String(), "count", len(manual))
	}
	return nreg
}

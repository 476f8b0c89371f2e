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

// Package extpoint provides a global, process-wide extension-point registry.
//
// An extension point is a capability, usually an interface, that many
// independent implementations can satisfy. extpoint discovers every
// implementation declared for a point, keeps them as one canonical list
// ordered by ordinal, and exposes that list through typed views, a
// descriptor index and a legacy mutable-list bridge.
//
// # Declaring extensions
//
// Implementations declare themselves from init functions through the
// manifest package:
//
//	func init() {
//		manifest.Func(func() Car { return &Toyota{} }, manifest.Ordinal(1))
//		manifest.Func(honda, manifest.Ordinal(3))
//		manifest.Value[Car](mazda, manifest.Ordinal(2))
//		manifest.Descriptor[Fish](taiDescriptor{})
//	}
//
// Discovery instantiates each declared candidate once. A candidate that
// fails, panics, returns nil, returns the wrong type or exceeds its time
// budget is logged and left out; the others load normally.
//
// # Design
//
// The core of extpoint is a read-mostly global snapshot (state). The
// snapshot holds:
//
//   - Config: discovery worker count, per-candidate budget, logger and
//     candidate filters such as an operator overlay.
//
//   - Builder: a pluggable factory that constructs a Registry for a
//     Config. It carries manually added instances over from the previous
//     Registry when rebuilding.
//
//   - Registry: a mapping from extension point to exactly one entry. An
//     entry discovers its instances on first read, exactly once per
//     invalidation, and publishes them as an immutable snapshot.
//
//   - Ready: whether the environment is started. While stopped, every
//     lookup returns an empty list that never discovers, and mutations
//     are rejected.
//
// Readers load the snapshot pointer and never lock it. Writers (SetConfig,
// SetBuilder, SetRegistry, SetAll, Reload, Start, Stop) take a short build
// mutex, assemble a new state and swap it in.
//
// # Views
//
//	cars := extpoint.Lookup[Car]()                  // extlist.List[Car]
//	fish := extpoint.Descriptors[Fish]()            // extlist.Descriptors[Fish]
//	list := extpoint.DescriptorList[Fish]()         // legacy bridge
//	f, err := fish.NewInstanceFromRadioList(record)
//
// Views hold only the point they target. Any number of them can be created
// and discarded; all views of a point observe the same instances, and an
// instance added through one is visible through every other.
//
// # Pinning
//
// SetRegistry installs a registry and pins it: later SetConfig, SetBuilder
// and Reload calls leave it alone until UnpinRegistry.
package extpoint

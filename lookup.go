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

package extpoint

import (
	"reflect"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/descriptor"
	"dirpx.dev/extpoint/extlist"
	"dirpx.dev/extpoint/legacy"
)

// Registry returns the global registry, or an inert one while the
// environment is stopped.
func Registry() apis.Registry {
	s := st.Load()
	if !s.ready {
		return inert
	}
	return s.reg
}

// Lookup returns the extension list of the point T.
func Lookup[T any]() extlist.List[T] {
	return extlist.New[T](Registry().Entry(reflect.TypeFor[T]()))
}

// LookupType returns the entry of point.
func LookupType(point reflect.Type) apis.Entry {
	return Registry().Entry(point)
}

// Descriptors returns the descriptor list of the describable type T.
func Descriptors[T any]() extlist.Descriptors[T] {
	return extlist.NewDescriptors[T](Registry().Entry(descriptor.Point[T]()))
}

// DescriptorOf returns the descriptor of v's class.
func DescriptorOf[T any](v T) (apis.Descriptor, bool) {
	return Descriptors[T]().Of(v)
}

// LegacyList returns a list bound to the point T. Every list for T, whenever
// created, shares the registry's contents.
func LegacyList[T any]() *legacy.List[T] {
	return legacy.NewList[T](Registry)
}

// DescriptorList returns a descriptor list bound to the describable type T.
func DescriptorList[T any]() *legacy.DescriptorList[T] {
	return legacy.NewDescriptorList[T](Registry)
}

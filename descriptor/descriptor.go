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

// Package descriptor provides the extension point under which descriptors
// of a describable type are registered, and an embeddable base for
// descriptor implementations.
package descriptor

import (
	"reflect"

	"dirpx.dev/extpoint/apis"
	uref "dirpx.dev/extpoint/utils/reflect"
)

// Of is the extension point of descriptors that describe implementations
// of T. Each instantiation is a distinct type, so Of[Fish] and Of[Bird]
// key different registry entries.
type Of[T any] interface {
	apis.Descriptor
}

// Point returns the extension point type for descriptors of T.
func Point[T any]() reflect.Type {
	return reflect.TypeFor[Of[T]]()
}

// ID returns the identifier of d: its own ID when it implements
// apis.Identified, otherwise the class name of the described type.
func ID(d apis.Descriptor) string {
	if d == nil {
		return ""
	}
	if id, ok := d.(apis.Identified); ok {
		if s := id.ID(); s != "" {
			return s
		}
	}
	return uref.ClassName(d.Describes())
}

// DisplayName returns the human readable name of d, falling back to the
// short name of the described type.
func DisplayName(d apis.Descriptor) string {
	if d == nil {
		return ""
	}
	if dn, ok := d.(apis.Displayed); ok {
		if s := dn.DisplayName(); s != "" {
			return s
		}
	}
	return uref.ShortName(d.Describes())
}

// Base is embedded by descriptor implementations describing C. It supplies
// Describes, ID and DisplayName; the embedding type adds NewInstance.
//
//	type taiDescriptor struct{ descriptor.Base[*Tai] }
//
//	func (taiDescriptor) NewInstance(apis.Record) (any, error) { return &Tai{}, nil }
type Base[C any] struct{}

// Describes returns the type C.
func (Base[C]) Describes() reflect.Type {
	return reflect.TypeFor[C]()
}

// ID returns the class name of C.
func (Base[C]) ID() string {
	return uref.ClassName(reflect.TypeFor[C]())
}

// DisplayName returns the short name of C.
func (Base[C]) DisplayName() string {
	return uref.ShortName(reflect.TypeFor[C]())
}

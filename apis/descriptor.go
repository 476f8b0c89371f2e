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

import "reflect"

// Descriptor knows how to instantiate one implementing type of a
// describable extension point from a configuration record.
// Descriptors are themselves extensions of the point descriptor.Point[T].
type Descriptor interface {
	// Describes returns the implementing type this descriptor creates.
	Describes() reflect.Type
	// NewInstance creates a new instance from rec. Errors are returned to
	// the caller unchanged.
	NewInstance(rec Record) (any, error)
}

// Identified is implemented by descriptors with an explicit ID.
// Without it the ID is the class name of the described type.
type Identified interface {
	ID() string
}

// Displayed is implemented by descriptors with a human readable name.
type Displayed interface {
	DisplayName() string
}

// DefaultDescriber is implemented by describable types that can supply
// their own descriptor when none was registered for them.
type DefaultDescriber interface {
	DefaultDescriptor() Descriptor
}

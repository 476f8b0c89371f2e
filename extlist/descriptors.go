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

package extlist

import (
	"fmt"
	"reflect"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/descriptor"
	"dirpx.dev/extpoint/internal/suggest"
	uref "dirpx.dev/extpoint/utils/reflect"
)

// Descriptors is a view over the descriptors of the describable type T.
// There is at most one descriptor per implementing class.
type Descriptors[T any] struct {
	List[apis.Descriptor]
}

// NewDescriptors returns a descriptor view of e, which must be the entry
// for descriptor.Point[T]().
func NewDescriptors[T any](e apis.Entry) Descriptors[T] {
	return Descriptors[T]{List: New[apis.Descriptor](e)}
}

// ForType returns the descriptor describing class. When none is registered
// and the zero value of class implements apis.DefaultDescriber, its
// descriptor is added once and returned.
func (l Descriptors[T]) ForType(class reflect.Type) (apis.Descriptor, bool) {
	if class == nil {
		return nil, false
	}
	if d, ok := l.describing(class); ok {
		return d, true
	}

	dd, ok := uref.Zero(class).(apis.DefaultDescriber)
	if !ok {
		return nil, false
	}
	d := dd.DefaultDescriptor()
	if d == nil || !uref.SameClass(d.Describes(), class) {
		return nil, false
	}
	if _, err := l.Entry().AddUnless(d, describes(class)); err != nil {
		return nil, false
	}
	return l.describing(class)
}

// Of returns the descriptor of v's class.
func (l Descriptors[T]) Of(v T) (apis.Descriptor, bool) {
	var a any = v
	if a == nil {
		return nil, false
	}
	return l.ForType(reflect.TypeOf(a))
}

// Find returns the descriptor named name. A descriptor matches by its ID,
// which defaults to the class name of the described type, or by its own
// class name.
func (l Descriptors[T]) Find(name string) (apis.Descriptor, bool) {
	if name == "" {
		return nil, false
	}
	for d := range l.All() {
		if descriptor.ID(d) == name ||
			uref.ClassName(d.Describes()) == name ||
			uref.ClassName(reflect.TypeOf(d)) == name {
			return d, true
		}
	}
	return nil, false
}

// Add registers d unless its class already has a descriptor.
func (l Descriptors[T]) Add(d apis.Descriptor) error {
	if d == nil {
		return l.Entry().Add(d)
	}
	added, err := l.Entry().AddUnless(d, describes(d.Describes()))
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("%w: %s", ErrDuplicateDescriptor, uref.ClassName(d.Describes()))
	}
	return nil
}

// NewInstanceFromRadioList creates a T with the descriptor named by the
// record's selected value, passing it the same record. Errors from the
// descriptor are returned unchanged.
func (l Descriptors[T]) NewInstanceFromRadioList(rec apis.Record) (T, error) {
	var zero T
	name, ok := rec.Selected()
	if !ok {
		return zero, ErrNoSelection
	}
	d, ok := l.Find(name)
	if !ok {
		return zero, &NotFoundError{Name: name, Suggestion: suggest.Closest(name, l.names())}
	}
	v, err := d.NewInstance(rec)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s created %T", ErrWrongType, descriptor.ID(d), v)
	}
	return t, nil
}

// NewInstanceFromRadioListField is NewInstanceFromRadioList over the nested
// record under field. An absent field yields the zero T and no error.
func (l Descriptors[T]) NewInstanceFromRadioListField(rec apis.Record, field string) (T, error) {
	sub, ok := rec.Sub(field)
	if !ok {
		var zero T
		return zero, nil
	}
	return l.NewInstanceFromRadioList(sub)
}

func (l Descriptors[T]) describing(class reflect.Type) (apis.Descriptor, bool) {
	for d := range l.All() {
		if uref.SameClass(d.Describes(), class) {
			return d, true
		}
	}
	return nil, false
}

func (l Descriptors[T]) names() []string {
	var out []string
	for d := range l.All() {
		out = append(out, descriptor.ID(d))
	}
	return out
}

func describes(class reflect.Type) func(any) bool {
	return func(v any) bool {
		d, ok := v.(apis.Descriptor)
		return ok && uref.SameClass(d.Describes(), class)
	}
}

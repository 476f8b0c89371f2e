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

package reflect

import "reflect"

// Same reports whether a and b denote the same instance: identical
// pointers, or equal values of one dynamic type. Values that == cannot
// compare, such as structs holding slices, are compared deeply.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		if eq, ok := equal(a, b); ok {
			return eq
		}
	}
	return reflect.DeepEqual(a, b)
}

// equal is a == b; ok is false when a holds an uncomparable interface value.
func equal(a, b any) (eq, ok bool) {
	defer func() {
		if recover() != nil {
			eq, ok = false, false
		}
	}()
	return a == b, true
}

// Implements reports whether a value of type t can be stored as point.
func Implements(t, point reflect.Type) bool {
	if t == nil || point == nil {
		return false
	}
	if point.Kind() == reflect.Interface {
		return t.Implements(point)
	}
	return t.AssignableTo(point)
}

// IsClass reports whether v's runtime type is exactly class. A pointer and
// its element type are the same class.
func IsClass(v any, class reflect.Type) bool {
	if v == nil || class == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if t == class {
		return true
	}
	nt, err := Normalize(t)
	if err != nil {
		return false
	}
	nc, err := Normalize(class)
	return err == nil && nt == nc
}

// SameClass reports whether a and b name the same class, treating a
// pointer and its element type alike.
func SameClass(a, b reflect.Type) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	na, err := Normalize(a)
	if err != nil {
		return false
	}
	nb, err := Normalize(b)
	return err == nil && na == nb
}

// Zero returns a usable zero value of t: a pointer to a fresh zero element
// for pointer types, the plain zero value otherwise.
func Zero(t reflect.Type) any {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.Zero(t).Interface()
}

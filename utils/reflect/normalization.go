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

import (
	"errors"
	"reflect"
	"strings"
)

// MaxUnwrap limits pointer unwrapping depth. Acts as a safety guard
// against pathological ***T chains.
const MaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is not a named type (e.g., anonymous struct, func, slice).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
)

// Normalize unwraps pointers and returns the nearest named type, or an
// error if none is found. It defines the "class" of an extension: *Dog and
// Dog both normalize to Dog.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for i := 0; t.Kind() == reflect.Pointer && t.Name() == "" && i < MaxUnwrap; i++ {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}

// ClassName returns the fully-qualified name "<pkgpath>.<Name>" of the
// normalized t. Builtin types yield their bare name. Unnamed types (for
// example an anonymous struct or closure type) yield t.String().
func ClassName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	n, err := Normalize(t)
	if err != nil {
		return t.String()
	}
	if p := n.PkgPath(); p != "" {
		return p + "." + n.Name()
	}
	return n.Name()
}

// ShortName returns "<pkg>.<Name>" with the last package path element only
// and generic instantiation parameters stripped.
func ShortName(t reflect.Type) string {
	n, err := Normalize(t)
	if err != nil {
		if t == nil {
			return ""
		}
		return t.String()
	}
	name := stripTypeParams(n.Name())
	if p := n.PkgPath(); p != "" {
		if i := strings.LastIndexByte(p, '/'); i >= 0 {
			p = p[i+1:]
		}
		return p + "." + name
	}
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}

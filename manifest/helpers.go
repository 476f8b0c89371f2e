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

package manifest

import (
	"reflect"
	"runtime"
	"strings"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/descriptor"
	uref "dirpx.dev/extpoint/utils/reflect"
)

// Option adjusts a candidate before it is registered.
type Option func(*apis.Candidate)

// Ordinal sets the candidate's ordinal. Higher sorts earlier.
func Ordinal(n int) Option {
	return func(c *apis.Candidate) { c.Ordinal = n }
}

// Named overrides the candidate's name.
func Named(name string) Option {
	return func(c *apis.Candidate) { c.Name = name }
}

// Func registers fn in Default as a candidate of point P.
func Func[P any](fn func() P, opts ...Option) {
	FuncTo(Default, fn, opts...)
}

// FuncTo registers fn in m as a candidate of point P.
// The default name is the symbol name of fn.
func FuncTo[P any](m *Manifest, fn func() P, opts ...Option) {
	if fn == nil {
		panic(ErrNilFactory)
	}
	register(m, apis.Candidate{
		Point: reflect.TypeFor[P](),
		Name:  funcName(fn),
		New:   func() (any, error) { return fn(), nil },
	}, opts)
}

// Factory registers a fallible factory in Default as a candidate of point P.
func Factory[P any](fn func() (P, error), opts ...Option) {
	FactoryTo(Default, fn, opts...)
}

// FactoryTo registers a fallible factory in m as a candidate of point P.
func FactoryTo[P any](m *Manifest, fn func() (P, error), opts ...Option) {
	if fn == nil {
		panic(ErrNilFactory)
	}
	register(m, apis.Candidate{
		Point: reflect.TypeFor[P](),
		Name:  funcName(fn),
		New: func() (any, error) {
			v, err := fn()
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}, opts)
}

// Value registers the ready-made instance v in Default under point P.
func Value[P any](v P, opts ...Option) {
	ValueTo(Default, v, opts...)
}

// ValueTo registers the ready-made instance v in m under point P.
// The default name is v's ExtensionName when it implements apis.Namer,
// otherwise the class name of its type.
func ValueTo[P any](m *Manifest, v P, opts ...Option) {
	var inst any = v
	if inst == nil {
		panic(ErrNilFactory)
	}
	register(m, apis.Candidate{
		Point: reflect.TypeFor[P](),
		Name:  valueName(inst),
		Type:  reflect.TypeOf(inst),
		New:   func() (any, error) { return inst, nil },
	}, opts)
}

// Descriptor registers d in Default as a descriptor of the describable T.
func Descriptor[T any](d apis.Descriptor, opts ...Option) {
	DescriptorTo[T](Default, d, opts...)
}

// DescriptorTo registers d in m as a descriptor of the describable T.
// The default name is the descriptor ID, so a second descriptor for the
// same class panics as a duplicate. One registered under another name is
// rejected when the point is discovered.
func DescriptorTo[T any](m *Manifest, d apis.Descriptor, opts ...Option) {
	if d == nil {
		panic(ErrNilFactory)
	}
	register(m, apis.Candidate{
		Point: descriptor.Point[T](),
		Name:  descriptor.ID(d),
		Type:  reflect.TypeOf(d),
		New:   func() (any, error) { return d, nil },
	}, opts)
}

func register(m *Manifest, c apis.Candidate, opts []Option) {
	for _, opt := range opts {
		opt(&c)
	}
	m.Register(c)
}

func valueName(v any) string {
	if n, ok := v.(apis.Namer); ok {
		if s := n.ExtensionName(); s != "" {
			return s
		}
	}
	return uref.ClassName(reflect.TypeOf(v))
}

// funcName returns the symbol name of fn, e.g. "example.com/cars.honda".
func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return ""
	}
	return strings.TrimSuffix(f.Name(), "-fm")
}

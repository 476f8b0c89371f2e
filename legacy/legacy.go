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

// Package legacy adapts registry entries to the plain mutable list idiom
// used by code that registered extensions by hand.
//
// A bound list holds only its extension point and a registry source and
// resolves the entry on every call. Bound lists for the same point, and the
// registry's own views, therefore share one state no matter when they were
// created. An unbound descriptor list owns a private entry that is never
// populated by discovery.
package legacy

import (
	"iter"
	"reflect"
	"slices"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/descriptor"
	"dirpx.dev/extpoint/extlist"
	"dirpx.dev/extpoint/registry"
	uref "dirpx.dev/extpoint/utils/reflect"
)

// Source returns the registry a bound list resolves against.
type Source func() apis.Registry

func resolve(src Source, point reflect.Type) apis.Entry {
	if src != nil {
		if reg := src(); reg != nil {
			return reg.Entry(point)
		}
	}
	return registry.Inert().Entry(point)
}

// List is a bound list over the extension point T.
type List[T any] struct {
	point reflect.Type
	src   Source
}

func NewList[T any](src Source) *List[T] {
	return &List[T]{point: reflect.TypeFor[T](), src: src}
}

func (l *List[T]) view() extlist.List[T] {
	return extlist.New[T](resolve(l.src, l.point))
}

func (l *List[T]) Len() int { return l.view().Len() }

func (l *List[T]) At(i int) T { return l.view().At(i) }

func (l *List[T]) Items() []T { return l.view().Items() }

func (l *List[T]) All() iter.Seq[T] { return l.view().All() }

// Add appends v and reports whether it was accepted.
func (l *List[T]) Add(v T) bool { return l.view().Add(v) == nil }

func (l *List[T]) Remove(v T) bool { return l.view().Remove(v) }

func (l *List[T]) Contains(v T) bool { return l.view().Contains(v) }

// IndexOf returns the position of v, or -1.
func (l *List[T]) IndexOf(v T) int {
	return slices.IndexFunc(l.Items(), func(x T) bool { return uref.Same(x, v) })
}

// DescriptorList is a list of the descriptors of the describable type T.
type DescriptorList[T any] struct {
	point    reflect.Type
	src      Source
	detached apis.Entry
}

// NewDescriptorList returns a list bound to the descriptor point of T.
func NewDescriptorList[T any](src Source) *DescriptorList[T] {
	return &DescriptorList[T]{point: descriptor.Point[T](), src: src}
}

// NewUnboundDescriptorList returns an empty list that only grows through
// Add. Each call returns a list with its own contents.
func NewUnboundDescriptorList[T any]() *DescriptorList[T] {
	p := descriptor.Point[T]()
	return &DescriptorList[T]{point: p, detached: registry.NewDetached(p)}
}

// Bound reports whether the list shares state with the registry.
func (l *DescriptorList[T]) Bound() bool { return l.detached == nil }

func (l *DescriptorList[T]) view() extlist.Descriptors[T] {
	if l.detached != nil {
		return extlist.NewDescriptors[T](l.detached)
	}
	return extlist.NewDescriptors[T](resolve(l.src, l.point))
}

func (l *DescriptorList[T]) Len() int { return l.view().Len() }

func (l *DescriptorList[T]) At(i int) apis.Descriptor { return l.view().At(i) }

func (l *DescriptorList[T]) Items() []apis.Descriptor { return l.view().Items() }

func (l *DescriptorList[T]) All() iter.Seq[apis.Descriptor] { return l.view().All() }

// Add appends d and reports whether it was accepted. A second descriptor for
// an already described class is rejected.
func (l *DescriptorList[T]) Add(d apis.Descriptor) bool { return l.view().Add(d) == nil }

func (l *DescriptorList[T]) Remove(d apis.Descriptor) bool { return l.view().Remove(d) }

func (l *DescriptorList[T]) Contains(d apis.Descriptor) bool { return l.view().Contains(d) }

func (l *DescriptorList[T]) IndexOf(d apis.Descriptor) int {
	return slices.IndexFunc(l.Items(), func(x apis.Descriptor) bool { return uref.Same(x, d) })
}

// FindByName returns the descriptor whose ID or class name is fqcn.
func (l *DescriptorList[T]) FindByName(fqcn string) (apis.Descriptor, bool) {
	return l.view().Find(fqcn)
}

// NewInstanceFromRadioList creates a T with the descriptor selected by rec.
func (l *DescriptorList[T]) NewInstanceFromRadioList(rec apis.Record) (T, error) {
	return l.view().NewInstanceFromRadioList(rec)
}

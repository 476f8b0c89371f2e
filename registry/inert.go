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

package registry

import (
	"reflect"

	"dirpx.dev/extpoint/apis"
)

// Inert returns a registry for an environment that is not running. Its
// entries are always empty, never discover and reject every mutation with
// ErrUninitialized.
func Inert() apis.Registry { return inert{} }

type inert struct{}

func (inert) Entry(point reflect.Type) apis.Entry { return inertEntry{point: point} }
func (inert) Points() []reflect.Type              { return nil }
func (inert) Count() int                          { return 0 }
func (inert) Refresh()                            {}
func (inert) Reset()                              {}
func (inert) Generation() string                  { return "" }

type inertEntry struct {
	point reflect.Type
}

func (e inertEntry) Point() reflect.Type                       { return e.point }
func (inertEntry) Snapshot() []any                             { return nil }
func (inertEntry) Len() int                                    { return 0 }
func (inertEntry) Populated() bool                             { return false }
func (inertEntry) Add(any) error                               { return ErrUninitialized }
func (inertEntry) AddUnless(any, func(any) bool) (bool, error) { return false, ErrUninitialized }
func (inertEntry) Remove(any) bool                             { return false }
func (inertEntry) RemoveAll([]any) bool                        { return false }
func (inertEntry) Refresh()                                    {}
func (inertEntry) Manual() []any                               { return nil }
func (inertEntry) Failures() []error                           { return nil }

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
	"errors"
	"fmt"

	"dirpx.dev/extpoint/registry"
)

var (
	// ErrNotFound is matched by every *NotFoundError.
	ErrNotFound = errors.New("extpoint(extlist): no matching descriptor")
	// ErrNoSelection is returned when a record names no selected class.
	ErrNoSelection = errors.New("extpoint(extlist): record has no selected value")
	// ErrWrongType is returned when a descriptor creates a value of the
	// wrong type.
	ErrWrongType = errors.New("extpoint(extlist): descriptor returned unexpected type")
	// ErrDuplicateDescriptor is returned when a descriptor is added for a
	// class that already has one.
	ErrDuplicateDescriptor = registry.ErrDuplicateDescriptor
)

// NotFoundError reports a selected name that matches no descriptor.
type NotFoundError struct {
	Name string
	// Suggestion is the closest known descriptor name, if any.
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (did you mean %q?)", ErrNotFound, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", ErrNotFound, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

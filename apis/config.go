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

import (
	"log/slog"
	"time"
)

// Config carries read-only discovery knobs.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Workers caps how many candidates are instantiated concurrently during
	// one discovery pass. A value of 1 instantiates candidates sequentially.
	Workers int

	// CandidateTimeout bounds a single candidate instantiation. A slow
	// candidate is recorded as a discovery failure once the budget is spent
	// and its result is discarded. Zero disables the budget.
	CandidateTimeout time.Duration

	// Logger receives discovery diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Filters are applied, in order, to the candidates a Finder reports
	// before anything is instantiated.
	Filters []Filter
}

// Log returns the configured logger or slog.Default().
func (c Config) Log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

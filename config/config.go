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

package config

import (
	"log/slog"
	"time"

	"dirpx.dev/extpoint/apis"
)

const (
	// DefaultWorkers is the default for Workers.
	DefaultWorkers = 4
	// DefaultCandidateTimeout is the default for CandidateTimeout.
	DefaultCandidateTimeout = 10 * time.Second
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Workers:          DefaultWorkers,
		CandidateTimeout: DefaultCandidateTimeout,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithWorkers sets the Workers option.
// A value below 1 resets to the default.
func WithWorkers(n int) Option {
	return func(c *apis.Config) {
		if n < 1 {
			c.Workers = DefaultWorkers
			return
		}
		c.Workers = n
	}
}

// WithCandidateTimeout sets the CandidateTimeout option.
// Zero disables the budget; a negative value resets to the default.
func WithCandidateTimeout(d time.Duration) Option {
	return func(c *apis.Config) {
		if d < 0 {
			c.CandidateTimeout = DefaultCandidateTimeout
			return
		}
		c.CandidateTimeout = d
	}
}

// WithLogger sets the Logger option.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}

// WithFilters appends candidate filters.
func WithFilters(fs ...apis.Filter) Option {
	return func(c *apis.Config) {
		for _, f := range fs {
			if f != nil {
				c.Filters = append(c.Filters, f)
			}
		}
	}
}

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

package extpoint

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/builder"
	"dirpx.dev/extpoint/config"
	"dirpx.dev/extpoint/finder"
	"dirpx.dev/extpoint/manifest"
	"dirpx.dev/extpoint/registry"
)

// init initializes the global state. The environment starts stopped.
func init() {
	s := &state{cfg: config.DefaultConfig(), bld: DefaultBuilder()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil)
	st.Store(s)
}

// ErrNilRegistry is raised when a builder returns a nil registry.
var ErrNilRegistry = errors.New("extpoint: builder returned nil registry")

// DefaultBuilder returns a builder discovering from manifest.Default.
func DefaultBuilder() apis.Builder {
	return builder.New(finder.NewManifest(manifest.Default))
}

// Start makes the registry visible. Until then, and after Stop, every
// lookup observes an empty, non-discovering list.
func Start() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	if old.ready {
		return
	}
	next := old.with()
	next.ready = true
	st.Store(next)
	old.cfg.Log().Info("Extension registry started.", "generation", next.reg.Generation())
}

// Stop hides the registry and, unless it is pinned, replaces it with a
// fresh one so the next Start discovers from scratch.
func Stop() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := old.with()
	next.ready = false
	if !old.preg {
		next.reg = build(old.bld, old.cfg, nil)
	}
	st.Store(next)
	if old.ready {
		old.cfg.Log().Info("Extension registry stopped.", "generation", old.reg.Generation())
	}
}

// Ready reports whether the environment is started.
func Ready() bool {
	return st.Load().ready
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg. An unpinned registry is
// rebuilt under cfg, carrying over manually added instances.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := old.with()
	next.cfg = cfg
	if !old.preg {
		next.reg = build(old.bld, cfg, old.reg)
	}
	st.Store(next)
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds an unpinned
// registry with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := old.with()
	next.bld = b
	if !old.preg {
		next.reg = build(b, old.cfg, old.reg)
	}
	st.Store(next)
}

// SetRegistry replaces the global registry with reg and pins it.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	next := st.Load().with()
	next.reg = reg
	next.preg = true
	st.Store(next)
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops configuration and builder changes from rebuilding the
// global registry.
func PinRegistry() {
	setPinned(true)
}

// UnpinRegistry lets later changes rebuild the global registry again.
func UnpinRegistry() {
	setPinned(false)
}

func setPinned(pinned bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	next := st.Load().with()
	next.preg = pinned
	st.Store(next)
}

// SetAll replaces the global state in one step. Nil cfg or bld keep the
// current value. A nil reg builds a fresh unpinned registry without
// carrying anything over; a non-nil reg is installed pinned. The ready
// flag is left as is.
//
// This is mainly used by tests to get a clean, deterministic state.
func SetAll(cfg *apis.Config, reg apis.Registry, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := old.with()
	if cfg != nil {
		next.cfg = *cfg
	}
	if bld != nil {
		next.bld = bld
	}
	next.reg, next.preg = reg, reg != nil
	if reg == nil {
		next.reg = build(next.bld, next.cfg, nil)
	}
	st.Store(next)
}

// Reload rebuilds an unpinned registry, carrying over manually added
// instances. Discovered instances are discovered again.
func Reload() {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	if old.preg {
		return
	}
	next := old.with()
	next.reg = build(old.bld, old.cfg, old.reg)
	st.Store(next)
	old.cfg.Log().Debug("Extension registry reloaded.",
		"previous", old.reg.Generation(), "generation", next.reg.Generation())
}

// Refresh marks every entry of the registry unpopulated. The next read of
// an entry loads newly declared candidates.
func Refresh() {
	Registry().Refresh()
}

func build(b apis.Builder, cfg apis.Config, prev apis.Registry) apis.Registry {
	reg := b.BuildRegistry(cfg, prev)
	if reg == nil {
		panic(ErrNilRegistry)
	}
	return reg
}

// buildMu serializes writers so a partially built state is never published.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is an immutable snapshot published through st. Writers create a
// new state and swap it in.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// bld builds registries.
	bld apis.Builder
	// reg is the global registry, visible only while ready.
	reg apis.Registry
	// ready reports whether the environment is started.
	ready bool
	// preg indicates whether reg is pinned.
	preg bool
}

func (s *state) with() *state {
	c := *s
	return &c
}

// inert is shared by every read while the environment is stopped.
var inert = registry.Inert()

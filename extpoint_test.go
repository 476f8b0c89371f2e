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
	"reflect"
	"sync"
	"testing"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/config"
	"dirpx.dev/extpoint/registry"
)

// ---------------------- Test doubles (mocks) ----------------------

type mockBuilder struct {
	mu    sync.Mutex
	calls int
	prevs []apis.Registry
	fail  bool
}

func (b *mockBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.prevs = append(b.prevs, prev)
	if b.fail {
		return nil
	}
	return registry.New(cfg, nil)
}

func (b *mockBuilder) builds() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Reset to a clean, started snapshot using the given builder.
func resetWithBuilder(tb testing.TB, b apis.Builder) {
	tb.Helper()
	cfg := config.DefaultConfig()
	SetAll(&cfg, nil, b)
	Start()
	tb.Cleanup(func() {
		Stop()
		SetAll(nil, nil, DefaultBuilder())
	})
}

type point interface{ M() }

var pointType = reflect.TypeFor[point]()

type impl struct{}

func (impl) M() {}

// -------------------------------- Tests ---------------------------------

func TestRegistry_InertWhileStopped(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{})
	Stop()

	if Ready() {
		t.Fatal("Ready() = true after Stop")
	}
	e := Registry().Entry(pointType)
	if e.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", e.Len())
	}
	if err := e.Add(impl{}); !errors.Is(err, registry.ErrUninitialized) {
		t.Fatalf("Add while stopped: got %v, want ErrUninitialized", err)
	}

	Start()
	if !Ready() {
		t.Fatal("Ready() = false after Start")
	}
	if n := Registry().Entry(pointType).Len(); n != 0 {
		t.Fatalf("stopped add leaked into registry: len %d", n)
	}
}

func TestSetConfig_Rebuilds_Unpinned(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b)
	before := b.builds()
	reg := Registry()

	SetConfig(config.NewConfig(config.WithWorkers(1)))

	if b.builds() != before+1 {
		t.Fatalf("builds = %d, want %d", b.builds(), before+1)
	}
	if Registry() == reg {
		t.Fatal("registry not replaced")
	}
	if b.prevs[len(b.prevs)-1] != reg {
		t.Fatal("previous registry not passed to builder")
	}
	if Config().Workers != 1 {
		t.Fatalf("Workers = %d, want 1", Config().Workers)
	}
}

func TestSetRegistry_Pins(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b)

	pinned := registry.New(apis.Config{}, nil)
	SetRegistry(pinned)
	if !IsRegistryPinned() {
		t.Fatal("registry not pinned")
	}
	before := b.builds()

	SetConfig(config.DefaultConfig())
	SetBuilder(&mockBuilder{})
	Reload()
	Stop()
	Start()

	if Registry() != apis.Registry(pinned) {
		t.Fatal("pinned registry was replaced")
	}
	if b.builds() != before {
		t.Fatalf("builder called %d times while pinned", b.builds()-before)
	}
}

func TestSetBuilder_Rebuilds_Only_Unpinned(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{})

	nb := &mockBuilder{}
	SetBuilder(nb)
	if nb.builds() != 1 {
		t.Fatalf("new builder builds = %d, want 1", nb.builds())
	}
	if Builder() != apis.Builder(nb) {
		t.Fatal("builder not installed")
	}

	PinRegistry()
	SetBuilder(&mockBuilder{})
	if nb.builds() != 1 {
		t.Fatal("pinned registry rebuilt")
	}
}

func TestUnpin_Allows_Rebuild_After(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b)

	PinRegistry()
	Reload()
	before := b.builds()

	UnpinRegistry()
	if IsRegistryPinned() {
		t.Fatal("registry still pinned")
	}
	Reload()
	if b.builds() != before+1 {
		t.Fatalf("builds = %d, want %d", b.builds(), before+1)
	}
}

func TestBuild_PanicsOnNilRegistry(t *testing.T) {
	b := &mockBuilder{}
	resetWithBuilder(t, b)
	b.fail = true

	defer func() {
		b.fail = false
		if r := recover(); r != ErrNilRegistry {
			t.Fatalf("recover() = %v, want ErrNilRegistry", r)
		}
	}()
	Reload()
}

func TestLookup_Concurrent_With_SetConfig(t *testing.T) {
	resetWithBuilder(t, &mockBuilder{})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				_ = LookupType(pointType).Len()
				_ = Config()
			}
		}()
	}
	for i := 0; i < 200; i++ {
		SetConfig(config.NewConfig(config.WithWorkers(i%4 + 1)))
	}
	close(stop)
	wg.Wait()
}

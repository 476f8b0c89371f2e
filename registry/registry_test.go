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

package registry_test

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/descriptor"
	"dirpx.dev/extpoint/finder"
	"dirpx.dev/extpoint/manifest"
	"dirpx.dev/extpoint/registry"
)

type Car interface{ Model() string }

type car string

func (c car) Model() string { return string(c) }

var carPoint = reflect.TypeFor[Car]()

func carCandidate(name string, ordinal int) apis.Candidate {
	return apis.Candidate{
		Point:   carPoint,
		Name:    name,
		Ordinal: ordinal,
		New:     func() (any, error) { return car(name), nil },
	}
}

func models(vs []any) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.(Car).Model())
	}
	return out
}

func quietConfig() apis.Config {
	return apis.Config{Workers: 4, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}
}

func TestEntry_Identity(t *testing.T) {
	reg := registry.New(quietConfig(), nil)

	a := reg.Entry(carPoint)
	b := reg.Entry(carPoint)
	assert.Same(t, a, b)
	assert.Equal(t, 1, reg.Count())
	assert.Equal(t, []reflect.Type{carPoint}, reg.Points())
	assert.NotEmpty(t, reg.Generation())

	assert.Panics(t, func() { reg.Entry(nil) })
}

func TestEntry_OrdinalsThenDeclarationOrder(t *testing.T) {
	f := finder.Static(
		carCandidate("toyota", 1),
		carCandidate("civic", 0),
		carCandidate("honda", 3),
		carCandidate("mazda", 2),
		carCandidate("corolla", 0),
	)
	e := registry.New(quietConfig(), f).Entry(carPoint)

	want := []string{"honda", "mazda", "toyota", "civic", "corolla"}
	if diff := cmp.Diff(want, models(e.Snapshot())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestEntry_FailureIsolation(t *testing.T) {
	var logs bytes.Buffer
	cfg := apis.Config{
		Workers:          2,
		CandidateTimeout: 50 * time.Millisecond,
		Logger:           slog.New(slog.NewTextHandler(&logs, nil)),
	}
	block := make(chan struct{})
	defer close(block)

	var nilCar *struct{ Car }
	f := finder.Static(
		carCandidate("ok-1", 0),
		apis.Candidate{Point: carPoint, Name: "broken", New: func() (any, error) { return nil, errors.New("boom") }},
		apis.Candidate{Point: carPoint, Name: "panics", New: func() (any, error) { panic("kaput") }},
		apis.Candidate{Point: carPoint, Name: "nil", New: func() (any, error) { return nilCar, nil }},
		apis.Candidate{Point: carPoint, Name: "wrong", New: func() (any, error) { return 42, nil }},
		apis.Candidate{Point: carPoint, Name: "slow", New: func() (any, error) { <-block; return car("slow"), nil }},
		carCandidate("ok-2", 0),
	)
	e := registry.New(cfg, f).Entry(carPoint)

	assert.Equal(t, []string{"ok-1", "ok-2"}, models(e.Snapshot()))

	failures := e.Failures()
	require.Len(t, failures, 5)
	byName := map[string]error{}
	for _, err := range failures {
		var de *registry.DiscoveryError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, carPoint, de.Point)
		byName[de.Candidate] = err
	}
	assert.EqualError(t, errors.Unwrap(byName["broken"]), "boom")
	assert.ErrorIs(t, byName["panics"], registry.ErrCandidatePanic)
	assert.ErrorIs(t, byName["nil"], registry.ErrNilInstance)
	assert.ErrorIs(t, byName["wrong"], registry.ErrWrongType)
	assert.ErrorIs(t, byName["slow"], registry.ErrCandidateTimeout)

	assert.Contains(t, logs.String(), "candidate=panics")
}

func TestEntry_RemoveAllIsIdempotent(t *testing.T) {
	e := registry.New(quietConfig(), finder.Static(carCandidate("a", 0), carCandidate("b", 0))).Entry(carPoint)

	contents := append([]any(nil), e.Snapshot()...)
	assert.True(t, e.RemoveAll(contents))
	assert.Equal(t, 0, e.Len())
	assert.False(t, e.RemoveAll(contents))
	assert.Equal(t, 0, e.Len())
}

func TestEntry_AddAndRemove(t *testing.T) {
	e := registry.New(quietConfig(), finder.Static(carCandidate("a", 5))).Entry(carPoint)

	require.NoError(t, e.Add(car("manual")))
	assert.Equal(t, []string{"a", "manual"}, models(e.Snapshot()))
	assert.Equal(t, []any{car("manual")}, e.Manual())

	assert.ErrorIs(t, e.Add(nil), registry.ErrNilInstance)
	assert.ErrorIs(t, e.Add("not a car"), registry.ErrWrongType)

	added, err := e.AddUnless(car("manual"), func(v any) bool { return v == car("manual") })
	require.NoError(t, err)
	assert.False(t, added)

	assert.True(t, e.Remove(car("manual")))
	assert.False(t, e.Remove(car("manual")))
	assert.Empty(t, e.Manual())
}

func TestEntry_RefreshKeepsManualAndAddsNewCandidates(t *testing.T) {
	m := manifest.New()
	manifest.ValueTo[Car](m, car("first"), manifest.Named("first"))
	e := registry.New(quietConfig(), finder.NewManifest(m)).Entry(carPoint)

	require.NoError(t, e.Add(car("manual")))
	manifest.ValueTo[Car](m, car("late"), manifest.Named("late"), manifest.Ordinal(10))
	manifest.ValueTo[Car](m, car("tie"), manifest.Named("tie"))
	assert.Equal(t, 2, e.Len(), "late registration is invisible until refresh")

	e.Refresh()
	assert.False(t, e.Populated())
	assert.Equal(t, []string{"late", "first", "tie", "manual"}, models(e.Snapshot()))
	assert.True(t, e.Populated())
}

func TestEntry_RefreshDoesNotResurrectRemoved(t *testing.T) {
	e := registry.New(quietConfig(), finder.Static(carCandidate("a", 0))).Entry(carPoint)
	require.True(t, e.Remove(car("a")))

	e.Refresh()
	assert.Equal(t, 0, e.Len())
}

func TestRegistry_Reset(t *testing.T) {
	reg := registry.New(quietConfig(), finder.Static(carCandidate("a", 0)))
	old := reg.Entry(carPoint)
	require.True(t, old.Remove(car("a")))

	reg.Reset()
	assert.Equal(t, 0, reg.Count())
	fresh := reg.Entry(carPoint)
	assert.NotSame(t, old, fresh)
	assert.Equal(t, 1, fresh.Len())
}

type filterFunc func(reflect.Type, []apis.Candidate) []apis.Candidate

func (f filterFunc) Apply(p reflect.Type, c []apis.Candidate) []apis.Candidate { return f(p, c) }

func TestEntry_FiltersRunBeforeInstantiation(t *testing.T) {
	cfg := quietConfig()
	instantiated := false
	cfg.Filters = []apis.Filter{filterFunc(func(_ reflect.Type, cands []apis.Candidate) []apis.Candidate {
		return cands[:1]
	})}
	f := finder.Static(
		carCandidate("kept", 0),
		apis.Candidate{Point: carPoint, Name: "dropped", New: func() (any, error) {
			instantiated = true
			return car("dropped"), nil
		}},
	)
	e := registry.New(cfg, f).Entry(carPoint)

	assert.Equal(t, []string{"kept"}, models(e.Snapshot()))
	assert.False(t, instantiated)
}

func TestDetached_NeverDiscovers(t *testing.T) {
	e := registry.NewDetached(carPoint)
	assert.True(t, e.Populated())
	assert.Equal(t, 0, e.Len())

	require.NoError(t, e.Add(car("only")))
	e.Refresh()
	assert.Equal(t, []string{"only"}, models(e.Snapshot()))
}

func TestInert(t *testing.T) {
	reg := registry.Inert()
	e := reg.Entry(carPoint)

	assert.Equal(t, 0, e.Len())
	assert.Empty(t, e.Snapshot())
	assert.ErrorIs(t, e.Add(car("x")), registry.ErrUninitialized)
	assert.Equal(t, 0, reg.Count())
	assert.Equal(t, 0, e.Len())
}

func TestRegistry_AdoptWaitsForDiscovery(t *testing.T) {
	reg := registry.New(quietConfig(), finder.Static(carCandidate("discovered", 0)))

	require.NoError(t, reg.Adopt(carPoint, car("carried")))
	assert.False(t, reg.Entry(carPoint).Populated())
	assert.Equal(t, []any{car("carried")}, reg.Entry(carPoint).Manual())

	assert.Equal(t, []string{"discovered", "carried"}, models(reg.Entry(carPoint).Snapshot()))
	assert.ErrorIs(t, reg.Adopt(carPoint, 7), registry.ErrWrongType)
}

type optsCar struct{ opts []string }

func (c optsCar) Model() string { return "opts" }

func TestEntry_RemoveAllValuesWithSliceFields(t *testing.T) {
	f := finder.Static(apis.Candidate{
		Point: carPoint,
		Name:  "opts",
		New:   func() (any, error) { return optsCar{opts: []string{"a"}}, nil },
	})
	e := registry.New(quietConfig(), f).Entry(carPoint)

	assert.False(t, e.Remove(optsCar{opts: []string{"b"}}))
	contents := append([]any(nil), e.Snapshot()...)
	assert.True(t, e.RemoveAll(contents))
	assert.Equal(t, 0, e.Len())
}

type boxedCar struct{ v any }

func (boxedCar) Model() string { return "boxed" }

func TestEntry_RemoveComparableTypeHoldingSlice(t *testing.T) {
	e := registry.NewDetached(carPoint)
	require.NoError(t, e.Add(boxedCar{v: []int{1}}))

	assert.False(t, e.Remove(boxedCar{v: []int{2}}))
	assert.True(t, e.Remove(boxedCar{v: []int{1}}))
	assert.Equal(t, 0, e.Len())
}

type Fish interface{ Kind() string }

type Tai struct{}

func (*Tai) Kind() string { return "tai" }

type taiDescriptor struct{ descriptor.Base[*Tai] }

func (taiDescriptor) NewInstance(apis.Record) (any, error) { return &Tai{}, nil }

// otherTai describes Tai too, under its own ID.
type otherTai struct{ descriptor.Base[*Tai] }

func (otherTai) ID() string { return "other-tai" }

func (otherTai) NewInstance(apis.Record) (any, error) { return &Tai{}, nil }

func TestEntry_OneDescriptorPerClass(t *testing.T) {
	m := manifest.New()
	manifest.DescriptorTo[Fish](m, taiDescriptor{})
	manifest.DescriptorTo[Fish](m, otherTai{})
	e := registry.New(quietConfig(), finder.NewManifest(m)).Entry(descriptor.Point[Fish]())

	require.Equal(t, []any{taiDescriptor{}}, e.Snapshot())
	failures := e.Failures()
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], registry.ErrDuplicateDescriptor)
	var de *registry.DiscoveryError
	require.ErrorAs(t, failures[0], &de)
	assert.Equal(t, "other-tai", de.Candidate)

	assert.ErrorIs(t, e.Add(otherTai{}), registry.ErrDuplicateDescriptor)
	assert.Equal(t, 1, e.Len())

	e.Refresh()
	assert.Equal(t, []any{taiDescriptor{}}, e.Snapshot())
}

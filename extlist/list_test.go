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

package extlist_test

import (
	"bytes"
	"log/slog"
	"reflect"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/extlist"
	"dirpx.dev/extpoint/finder"
	"dirpx.dev/extpoint/manifest"
	"dirpx.dev/extpoint/registry"
)

type Animal interface{ Sound() string }

type Dog struct{}

func (*Dog) Sound() string { return "woof" }

type Cat struct{}

func (Cat) Sound() string { return "meow" }

type lion struct{ name string }

func (l *lion) Sound() string { return "roar from " + l.name }

func newRegistry(m *manifest.Manifest) apis.Registry {
	cfg := apis.Config{Workers: 2, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}
	return registry.New(cfg, finder.NewManifest(m))
}

func animals(t *testing.T) extlist.List[Animal] {
	t.Helper()
	m := manifest.New()
	manifest.FuncTo(m, func() Animal { return &Dog{} })
	manifest.ValueTo[Animal](m, Cat{})
	return extlist.New[Animal](newRegistry(m).Entry(reflect.TypeFor[Animal]()))
}

func TestList_AutoDiscovery(t *testing.T) {
	list := animals(t)

	assert.Equal(t, 2, list.Len())
	_, ok := list.Get(reflect.TypeFor[Dog]())
	assert.True(t, ok)
	_, ok = list.Get(reflect.TypeFor[*Dog]())
	assert.True(t, ok, "pointer and element are the same class")
	_, ok = list.Get(reflect.TypeFor[Cat]())
	assert.True(t, ok)
	_, ok = list.Get(reflect.TypeFor[lion]())
	assert.False(t, ok)
}

func TestInstance(t *testing.T) {
	list := animals(t)

	dog, ok := extlist.Instance[*Dog](list)
	require.True(t, ok)
	assert.Equal(t, "woof", dog.Sound())

	_, ok = extlist.Instance[*lion](list)
	assert.False(t, ok)
}

func TestList_AddIsVisibleThroughEveryView(t *testing.T) {
	list := animals(t)
	other := extlist.New[Animal](list.Entry())

	simba := &lion{name: "simba"}
	require.NoError(t, list.Add(simba))

	assert.Equal(t, 3, other.Len())
	assert.True(t, other.Contains(simba))
	assert.False(t, other.Contains(&lion{name: "simba"}), "distinct pointers are distinct instances")
	assert.Same(t, simba, other.At(2))
}

func TestList_RemoveAll(t *testing.T) {
	list := animals(t)

	items := list.Items()
	assert.True(t, list.RemoveAll(items))
	assert.Equal(t, 0, list.Len())
	assert.False(t, list.RemoveAll(items))
	assert.Equal(t, 0, list.Len())
}

func TestList_AllStopsEarly(t *testing.T) {
	list := animals(t)

	var seen []Animal
	for a := range list.All() {
		seen = append(seen, a)
		break
	}
	assert.Len(t, seen, 1)
	assert.Equal(t, list.Items(), slices.Collect(list.All()))
}

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

package legacy_test

import (
	"bytes"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/descriptor"
	"dirpx.dev/extpoint/extlist"
	"dirpx.dev/extpoint/finder"
	"dirpx.dev/extpoint/legacy"
	"dirpx.dev/extpoint/manifest"
	"dirpx.dev/extpoint/registry"
)

type Animal interface{ Sound() string }

type Dog struct{}

func (Dog) Sound() string { return "woof" }

type Cat struct{}

func (Cat) Sound() string { return "meow" }

type lion struct{}

func (*lion) Sound() string { return "roar" }

type Fish interface{ Kind() string }

type Tai struct{}

func (*Tai) Kind() string { return "tai" }

type Saba struct{}

func (*Saba) Kind() string { return "saba" }

type Sishamo struct{}

func (*Sishamo) Kind() string { return "sishamo" }

type taiDescriptor struct{ descriptor.Base[*Tai] }

func (taiDescriptor) NewInstance(apis.Record) (any, error) { return &Tai{}, nil }

type sabaDescriptor struct{ descriptor.Base[*Saba] }

func (sabaDescriptor) NewInstance(apis.Record) (any, error) { return &Saba{}, nil }

type sishamoDescriptor struct{ descriptor.Base[*Sishamo] }

func (sishamoDescriptor) NewInstance(apis.Record) (any, error) { return &Sishamo{}, nil }

func className[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.Name()
}

func source() legacy.Source {
	m := manifest.New()
	manifest.ValueTo[Animal](m, Dog{})
	manifest.ValueTo[Animal](m, Cat{})
	manifest.DescriptorTo[Fish](m, taiDescriptor{})
	manifest.DescriptorTo[Fish](m, sabaDescriptor{})

	cfg := apis.Config{Workers: 1, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}
	reg := registry.New(cfg, finder.NewManifest(m))
	return func() apis.Registry { return reg }
}

func TestList_MatchesDirectList(t *testing.T) {
	src := source()
	list := legacy.NewList[Animal](src)
	direct := extlist.New[Animal](src().Entry(reflect.TypeFor[Animal]()))

	require.Equal(t, 2, list.Len())
	assert.Equal(t, direct.Items(), list.Items())
	assert.Equal(t, 1, list.IndexOf(Cat{}))

	simba := &lion{}
	assert.True(t, list.Add(simba))
	assert.Equal(t, 3, list.Len())
	assert.True(t, list.Contains(simba))
	assert.True(t, direct.Contains(simba))

	require.NoError(t, direct.Add(&lion{}))
	assert.Equal(t, 4, list.Len())

	assert.True(t, list.Remove(simba))
	assert.Equal(t, -1, list.IndexOf(simba))
}

func TestDescriptorList_Bound(t *testing.T) {
	src := source()
	list := legacy.NewDescriptorList[Fish](src)
	direct := extlist.NewDescriptors[Fish](src().Entry(descriptor.Point[Fish]()))

	require.True(t, list.Bound())
	require.Equal(t, 2, direct.Len())

	assert.True(t, list.Add(sishamoDescriptor{}))
	assert.Equal(t, 3, direct.Len())
	_, ok := direct.Get(reflect.TypeFor[sishamoDescriptor]())
	assert.True(t, ok)

	assert.Equal(t, 3, list.Len())
	for _, name := range []string{className[Tai](), className[Saba](), className[Sishamo]()} {
		_, ok := list.FindByName(name)
		assert.True(t, ok, name)
	}

	// A new bridge sees what the old one accumulated.
	list = legacy.NewDescriptorList[Fish](src)
	assert.Equal(t, 3, list.Len())
	for _, name := range []string{className[Tai](), className[Saba](), className[Sishamo]()} {
		_, ok := list.FindByName(name)
		assert.True(t, ok, name)
	}

	assert.False(t, list.Add(sishamoDescriptor{}), "second descriptor for a class is rejected")
}

func TestDescriptorList_Unbound(t *testing.T) {
	list := legacy.NewUnboundDescriptorList[Fish]()
	require.False(t, list.Bound())
	assert.Equal(t, 0, list.Len())

	assert.True(t, list.Add(sishamoDescriptor{}))
	assert.Equal(t, 1, list.Len())
	_, ok := list.FindByName(className[Sishamo]())
	assert.True(t, ok)
	assert.Equal(t, 0, list.IndexOf(sishamoDescriptor{}))

	list = legacy.NewUnboundDescriptorList[Fish]()
	assert.Equal(t, 0, list.Len())
}

func TestDescriptorList_NewInstanceFromRadioList(t *testing.T) {
	list := legacy.NewDescriptorList[Fish](source())

	fish, err := list.NewInstanceFromRadioList(apis.Record{"value": className[Tai]()})
	require.NoError(t, err)
	assert.IsType(t, &Tai{}, fish)

	_, err = list.NewInstanceFromRadioList(apis.Record{"value": "example.com/Nope"})
	assert.ErrorIs(t, err, extlist.ErrNotFound)
}

func TestNilSource(t *testing.T) {
	list := legacy.NewList[Animal](nil)

	assert.Equal(t, 0, list.Len())
	assert.False(t, list.Add(Dog{}))
}

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

// Package record builds configuration records from decoded documents.
// Decoding user input itself happens elsewhere; these adapters only turn
// an already parsed document into the map a descriptor consumes.
package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"

	"dirpx.dev/extpoint/apis"
)

// Record is the configuration record passed to descriptors.
type Record = apis.Record

// ErrNotObject is returned when a document's top level is not an object.
var ErrNotObject = errors.New("extpoint(record): document is not an object")

// FromJSON decodes a JSON object into a Record.
func FromJSON(data []byte) (Record, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("extpoint(record): decode json: %w", err)
	}
	if m == nil {
		return nil, ErrNotObject
	}
	return Record(m), nil
}

// FromYAML decodes a YAML mapping into a Record.
func FromYAML(data []byte) (Record, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("extpoint(record): decode yaml: %w", err)
	}
	if m == nil {
		return nil, ErrNotObject
	}
	return Record(m), nil
}

// FromCty converts a known object or map value into a Record. Unknown
// nested values become nil.
func FromCty(v cty.Value) (Record, error) {
	if v.IsNull() || !v.IsKnown() || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return nil, ErrNotObject
	}
	native, err := ctyToNative(v)
	if err != nil {
		return nil, err
	}
	m, ok := native.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Record(m), nil
}

func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}
	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return i, nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("extpoint(record): number: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			n, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			n, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			out[key.AsString()] = n
		}
		return out, nil
	}
	return nil, fmt.Errorf("extpoint(record): unsupported type %s", ty.FriendlyName())
}

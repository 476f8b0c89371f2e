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

// SelectedKey and ClassKey name the fields that carry the selected
// implementation of a radio-list style configuration record.
const (
	SelectedKey = "value"
	ClassKey    = "$class"
)

// Record is an opaque configuration record produced by form or file
// decoding. Only the descriptor that receives it interprets its fields.
type Record map[string]any

// String returns the string stored under key.
func (r Record) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Sub returns the nested record stored under key.
func (r Record) Sub(key string) (Record, bool) {
	switch v := r[key].(type) {
	case Record:
		return v, true
	case map[string]any:
		return Record(v), true
	}
	return nil, false
}

// Selected returns the class name chosen in a radio-list record.
// SelectedKey wins over ClassKey.
func (r Record) Selected() (string, bool) {
	if s, ok := r.String(SelectedKey); ok && s != "" {
		return s, true
	}
	if s, ok := r.String(ClassKey); ok && s != "" {
		return s, true
	}
	return "", false
}

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

// Package suggest finds the closest known name for a misspelled one.
package suggest

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// threshold is the largest edit distance, relative to the longer name,
// still considered a plausible typo.
const threshold = 0.4

// Closest returns the element of known nearest to name, or "" when none is
// close enough. Comparison ignores case. Ties go to the earlier element.
func Closest(name string, known []string) string {
	if name == "" {
		return ""
	}
	best, bestScore := "", threshold
	for _, k := range known {
		if k == "" || k == name {
			continue
		}
		dist := levenshtein.ComputeDistance(strings.ToUpper(name), strings.ToUpper(k))
		score := float64(dist) / float64(max(utf8.RuneCountInString(name), utf8.RuneCountInString(k)))
		if score < bestScore {
			best, bestScore = k, score
		}
	}
	return best
}

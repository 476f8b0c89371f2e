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

package registry

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// waitGraph tracks which entries a discovery is blocked on so that a
// factory looking up a point whose discovery (directly or transitively)
// waits for that factory does not deadlock. Factories are identified by
// the goroutine instantiate starts for them.
type waitGraph struct {
	mu sync.Mutex
	// owners maps a running factory goroutine to the entry it serves.
	owners map[int64]*entry
	// edges[a][b] counts factories of a blocked on the discovery of b.
	edges map[*entry]map[*entry]int
}

func newWaitGraph() *waitGraph {
	return &waitGraph{owners: map[int64]*entry{}, edges: map[*entry]map[*entry]int{}}
}

// enter marks the calling goroutine as a factory of e.
func (g *waitGraph) enter(e *entry) (leave func()) {
	id := goid()
	g.mu.Lock()
	g.owners[id] = e
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		delete(g.owners, id)
		g.mu.Unlock()
	}
}

// drive records that the caller is about to discover target. When the
// caller is a factory, its entry now waits on target.
func (g *waitGraph) drive(target *entry) (leave func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	owner := g.ownerLocked()
	if owner == nil {
		return func() {}
	}
	g.linkLocked(owner, target, 1)
	return func() {
		g.mu.Lock()
		g.linkLocked(owner, target, -1)
		g.mu.Unlock()
	}
}

// await blocks until done is closed. It returns false without waiting when
// the caller is a factory whose entry target already waits on.
func (g *waitGraph) await(target *entry, done <-chan struct{}) bool {
	g.mu.Lock()
	owner := g.ownerLocked()
	if owner == nil {
		g.mu.Unlock()
		<-done
		return true
	}
	if g.reachesLocked(target, owner) {
		g.mu.Unlock()
		return false
	}
	g.linkLocked(owner, target, 1)
	g.mu.Unlock()

	<-done

	g.mu.Lock()
	g.linkLocked(owner, target, -1)
	g.mu.Unlock()
	return true
}

func (g *waitGraph) ownerLocked() *entry {
	if len(g.owners) == 0 {
		return nil
	}
	return g.owners[goid()]
}

func (g *waitGraph) linkLocked(from, to *entry, delta int) {
	out := g.edges[from]
	if out == nil {
		out = map[*entry]int{}
		g.edges[from] = out
	}
	out[to] += delta
	if out[to] <= 0 {
		delete(out, to)
	}
	if len(out) == 0 {
		delete(g.edges, from)
	}
}

func (g *waitGraph) reachesLocked(from, to *entry) bool {
	seen := map[*entry]bool{}
	stack := []*entry{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for next := range g.edges[cur] {
			stack = append(stack, next)
		}
	}
	return false
}

// goid returns the id of the calling goroutine, parsed from the header of
// its stack trace ("goroutine 42 [running]:").
func goid() int64 {
	var buf [64]byte
	b := buf[:runtime.Stack(buf[:], false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseInt(string(b), 10, 64)
	return id
}

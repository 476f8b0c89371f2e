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
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"dirpx.dev/extpoint/apis"
	"dirpx.dev/extpoint/internal/ctxlog"
	uref "dirpx.dev/extpoint/utils/reflect"
)

var descriptorType = reflect.TypeFor[apis.Descriptor]()

// NewDetached returns a private entry for point that never discovers.
// It only holds what is added to it.
func NewDetached(point reflect.Type) apis.Entry {
	if point == nil {
		panic(ErrNilPoint)
	}
	return newEntry(point, nil)
}

type item struct {
	value   any
	name    string
	ordinal int
	seq     int
	manual  bool
}

// entry holds the instances of one point. Structural changes happen under
// mu; readers load the published snapshot without locking. Discovery runs
// without mu; inflight is closed when it has been merged.
type entry struct {
	point       reflect.Type
	reg         *Registry
	descriptors bool

	mu       sync.Mutex
	items    []item
	known    map[string]bool
	pending  []any
	nextSeq  int
	failures []error
	inflight chan struct{}
	epoch    uint64

	populated atomic.Bool
	snap      atomic.Pointer[[]any]
}

var _ apis.Entry = (*entry)(nil)

func newEntry(point reflect.Type, reg *Registry) *entry {
	e := &entry{
		point:       point,
		reg:         reg,
		descriptors: point.Kind() == reflect.Interface && point.Implements(descriptorType),
		known:       map[string]bool{},
	}
	e.snap.Store(&[]any{})
	if reg == nil {
		e.populated.Store(true)
	}
	return e
}

func (e *entry) Point() reflect.Type { return e.point }

func (e *entry) Populated() bool { return e.populated.Load() }

func (e *entry) Snapshot() []any {
	if !e.populated.Load() {
		e.ensure()
	}
	return *e.snap.Load()
}

func (e *entry) Len() int { return len(e.Snapshot()) }

func (e *entry) Add(v any) error {
	_, err := e.AddUnless(v, nil)
	return err
}

func (e *entry) AddUnless(v any, exists func(any) bool) (bool, error) {
	if err := e.check(v); err != nil {
		return false, err
	}
	e.ensure()

	e.mu.Lock()
	defer e.mu.Unlock()

	if exists != nil {
		for _, it := range e.items {
			if exists(it.value) {
				return false, nil
			}
		}
	}
	if err := e.conflictLocked(v); err != nil {
		return false, err
	}
	e.appendManualLocked(v)
	e.publishLocked()
	return true, nil
}

func (e *entry) appendManualLocked(v any) {
	e.items = append(e.items, item{
		value:  v,
		name:   uref.ClassName(reflect.TypeOf(v)),
		seq:    e.nextSeq,
		manual: true,
	})
	e.nextSeq++
}

// adopt queues manual instances carried over from another registry. They
// join after the next discovery pass.
func (e *entry) adopt(vs []any) error {
	for _, v := range vs {
		if err := e.check(v); err != nil {
			return err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.populated.Load() {
		e.pending = append(e.pending, vs...)
		return nil
	}
	for _, v := range vs {
		if e.conflictLocked(v) == nil {
			e.appendManualLocked(v)
		}
	}
	e.publishLocked()
	return nil
}

func (e *entry) Remove(v any) bool {
	e.ensure()
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, it := range e.items {
		if uref.Same(it.value, v) {
			e.items = slices.Delete(e.items, i, i+1)
			e.publishLocked()
			return true
		}
	}
	return false
}

func (e *entry) RemoveAll(vs []any) bool {
	if len(vs) == 0 {
		return false
	}
	e.ensure()
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.items)
	e.items = slices.DeleteFunc(e.items, func(it item) bool {
		return slices.ContainsFunc(vs, func(v any) bool { return uref.Same(it.value, v) })
	})
	if len(e.items) == n {
		return false
	}
	e.publishLocked()
	return true
}

func (e *entry) Refresh() {
	if e.reg == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.populated.Store(false)
}

func (e *entry) Manual() []any {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []any
	for _, it := range e.items {
		if it.manual {
			out = append(out, it.value)
		}
	}
	return append(out, e.pending...)
}

func (e *entry) Failures() []error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.failures)
}

func (e *entry) check(v any) error {
	if isNil(v) {
		return ErrNilInstance
	}
	if !uref.Implements(reflect.TypeOf(v), e.point) {
		return fmt.Errorf("%w: %T is not %s", ErrWrongType, v, e.point)
	}
	return nil
}

// conflictLocked rejects a second descriptor for an already described class.
func (e *entry) conflictLocked(v any) error {
	if !e.descriptors {
		return nil
	}
	d, ok := v.(apis.Descriptor)
	if !ok {
		return nil
	}
	class := d.Describes()
	for _, it := range e.items {
		if o, ok := it.value.(apis.Descriptor); ok && uref.SameClass(o.Describes(), class) {
			return fmt.Errorf("%w: %s", ErrDuplicateDescriptor, uref.ClassName(class))
		}
	}
	return nil
}

// ensure populates the entry once per invalidation. The first caller
// discovers; others wait for it unless waiting would close a cycle of
// factories looking each other up, in which case they return at once and
// see the current snapshot.
func (e *entry) ensure() {
	for !e.populated.Load() {
		e.mu.Lock()
		if e.populated.Load() {
			e.mu.Unlock()
			return
		}
		if done := e.inflight; done != nil {
			e.mu.Unlock()
			if !e.reg.waits.await(e, done) {
				return
			}
			continue
		}
		done := make(chan struct{})
		e.inflight = done
		epoch := e.epoch
		known := maps.Clone(e.known)
		e.mu.Unlock()

		leave := e.reg.waits.drive(e)
		found, failures := e.discover(known)
		leave()

		e.mu.Lock()
		e.mergeLocked(found, failures)
		e.populated.Store(e.epoch == epoch)
		e.inflight = nil
		close(done)
		e.mu.Unlock()
		return
	}
}

// mergeLocked records a discovery pass: new items, queued manual instances,
// failures; then sorts and publishes.
func (e *entry) mergeLocked(found []item, failures []error) {
	log := e.reg.cfg.Log()
	for _, it := range found {
		if e.known[it.name] {
			continue
		}
		if err := e.conflictLocked(it.value); err != nil {
			log.Warn("Extension failed to load.", "point", e.point.String(), "candidate", it.name, "error", err)
			failures = append(failures, &DiscoveryError{Point: e.point, Candidate: it.name, Err: err})
			continue
		}
		e.known[it.name] = true
		e.items = append(e.items, it)
		e.nextSeq = max(e.nextSeq, it.seq+1)
	}
	for _, v := range e.pending {
		if err := e.conflictLocked(v); err != nil {
			log.Warn("Dropping carried over instance.", "point", e.point.String(), "error", err)
			continue
		}
		e.appendManualLocked(v)
	}
	e.pending = nil
	e.failures = failures
	e.sortLocked()
	e.publishLocked()
}

func (e *entry) publishLocked() {
	out := make([]any, len(e.items))
	for i, it := range e.items {
		out[i] = it.value
	}
	e.snap.Store(&out)
}

// sortLocked orders by descending ordinal; ties keep discovered instances
// before manual ones, each in sequence order.
func (e *entry) sortLocked() {
	slices.SortStableFunc(e.items, func(a, b item) int {
		if c := cmp.Compare(b.ordinal, a.ordinal); c != 0 {
			return c
		}
		if a.manual != b.manual {
			if a.manual {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.seq, b.seq)
	})
}

type outcome struct {
	value any
	err   error
}

// discover instantiates every candidate not in known, in declaration order.
// Failures are logged and returned; they never reach the reader.
func (e *entry) discover(known map[string]bool) ([]item, []error) {
	cfg := e.reg.cfg
	log := cfg.Log().With("generation", e.reg.gen, "point", e.point.String())
	ctx := ctxlog.WithLogger(context.Background(), log)

	var failures []error
	var cands []apis.Candidate
	if e.reg.finder != nil {
		var err error
		cands, err = e.reg.finder.Find(ctx, e.point)
		if err != nil {
			log.Warn("Extension discovery failed.", "error", err)
			failures = append(failures, &DiscoveryError{Point: e.point, Err: err})
		}
	}
	for _, f := range cfg.Filters {
		cands = f.Apply(e.point, cands)
	}
	cands = slices.DeleteFunc(cands, func(c apis.Candidate) bool { return known[c.Name] })

	results := make([]outcome, len(cands))
	g := new(errgroup.Group)
	g.SetLimit(max(cfg.Workers, 1))
	for i, c := range cands {
		g.Go(func() error {
			v, err := e.instantiate(c, cfg.CandidateTimeout)
			if err == nil {
				err = e.check(v)
			}
			results[i] = outcome{value: v, err: err}
			return nil
		})
	}
	_ = g.Wait()

	var found []item
	for i, c := range cands {
		r := results[i]
		if r.err != nil {
			log.Warn("Extension failed to load.", "candidate", c.Name, "error", r.err)
			failures = append(failures, &DiscoveryError{Point: e.point, Candidate: c.Name, Err: r.err})
			continue
		}
		found = append(found, item{value: r.value, name: c.Name, ordinal: c.Ordinal, seq: c.Seq})
	}
	log.Debug("Discovered extensions.",
		slog.Int("loaded", len(found)),
		slog.Int("failed", len(failures)))
	return found, failures
}

// instantiate runs c.New with panic recovery. A non-positive budget waits
// for the factory indefinitely; otherwise a late result is discarded.
func (e *entry) instantiate(c apis.Candidate, budget time.Duration) (any, error) {
	done := make(chan outcome, 1)
	go func() {
		leave := e.reg.waits.enter(e)
		defer leave()
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: fmt.Errorf("%w: %v", ErrCandidatePanic, p)}
			}
		}()
		v, err := c.New()
		done <- outcome{value: v, err: err}
	}()

	if budget <= 0 {
		r := <-done
		return r.value, r.err
	}
	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case r := <-done:
		return r.value, r.err
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrCandidateTimeout, budget)
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

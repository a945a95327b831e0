// Copyright 2026 The convlog Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sink

import (
	"errors"
	"testing"
)

// fakeSink records writes for registry tests.
type fakeSink struct {
	path      string
	threshold Level
	lines     [][]byte
	writeErr  error
	closes    int
}

func (f *fakeSink) Path() string     { return f.path }
func (f *fakeSink) Threshold() Level { return f.threshold }

func (f *fakeSink) Write(line []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.lines = append(f.lines, line)
	return nil
}

func (f *fakeSink) Close() error {
	f.closes++
	return nil
}

func TestRegistryDispatchThreshold(t *testing.T) {
	t.Parallel()

	r := NewRegistry(func(string, error) {})
	all := &fakeSink{path: "/tmp/all.log", threshold: Level(-4)}
	errsOnly := &fakeSink{path: "/tmp/errors.log", threshold: Level(8)}
	r.Add(all)
	r.Add(errsOnly)

	r.Dispatch(Level(0), []byte("info\n"))
	r.Dispatch(Level(8), []byte("error\n"))

	if got := len(all.lines); got != 2 {
		t.Errorf("low-threshold sink got %d lines, want 2", got)
	}
	if got := len(errsOnly.lines); got != 1 {
		t.Errorf("high-threshold sink got %d lines, want 1", got)
	}
}

func TestRegistryAddReplaces(t *testing.T) {
	t.Parallel()

	r := NewRegistry(func(string, error) {})
	first := &fakeSink{path: "/tmp/app.log"}
	second := &fakeSink{path: "/tmp/app.log"}
	other := &fakeSink{path: "/tmp/other.log"}
	r.Add(first)
	r.Add(other)
	r.Add(second)

	if first.closes != 1 {
		t.Errorf("replaced sink closed %d times, want 1", first.closes)
	}
	if got := r.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}

	r.Dispatch(Level(0), []byte("x\n"))
	if len(first.lines) != 0 {
		t.Error("replaced sink still receives lines")
	}
	if len(second.lines) != 1 {
		t.Error("replacement sink did not receive the line")
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	t.Parallel()

	r := NewRegistry(func(string, error) {})
	s := &fakeSink{path: "/tmp/app.log"}
	r.Add(s)

	if !r.Remove("/tmp/app.log") {
		t.Fatal("Remove reported no sink for a registered path")
	}
	if s.closes != 1 {
		t.Fatalf("removed sink closed %d times, want 1", s.closes)
	}
	if r.Remove("/tmp/app.log") {
		t.Fatal("second Remove reported a sink")
	}
	if r.Remove("/never/registered.log") {
		t.Fatal("Remove reported a sink for an unknown path")
	}
	if got := r.Len(); got != 0 {
		t.Fatalf("Len = %d, want 0", got)
	}
}

func TestRegistryRemoveAll(t *testing.T) {
	t.Parallel()

	r := NewRegistry(func(string, error) {})
	a := &fakeSink{path: "/tmp/a.log"}
	b := &fakeSink{path: "/tmp/b.log"}
	r.Add(a)
	r.Add(b)
	r.RemoveAll()

	if a.closes != 1 || b.closes != 1 {
		t.Fatalf("closes = %d/%d, want 1/1", a.closes, b.closes)
	}
	if got := r.Len(); got != 0 {
		t.Fatalf("Len = %d, want 0", got)
	}
}

func TestRegistryDispatchErrorIsolation(t *testing.T) {
	t.Parallel()

	var failedPaths []string
	r := NewRegistry(func(path string, err error) {
		failedPaths = append(failedPaths, path)
	})
	broken := &fakeSink{path: "/tmp/broken.log", writeErr: errors.New("disk full")}
	healthy := &fakeSink{path: "/tmp/healthy.log"}
	r.Add(broken)
	r.Add(healthy)

	r.Dispatch(Level(0), []byte("x\n"))

	if len(healthy.lines) != 1 {
		t.Fatal("healthy sink did not receive the line after a peer failed")
	}
	if len(failedPaths) != 1 || failedPaths[0] != "/tmp/broken.log" {
		t.Fatalf("error handler saw %v, want the broken sink once", failedPaths)
	}
}

func TestRegistryDispatchPreservesOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry(func(string, error) {})
	var order []string
	for _, path := range []string{"/tmp/1.log", "/tmp/2.log", "/tmp/3.log"} {
		path := path
		r.Add(&orderSink{path: path, record: func() { order = append(order, path) }})
	}
	r.Dispatch(Level(0), []byte("x\n"))

	want := []string{"/tmp/1.log", "/tmp/2.log", "/tmp/3.log"}
	if len(order) != len(want) {
		t.Fatalf("dispatch order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("dispatch order = %v, want %v", order, want)
		}
	}
}

// orderSink appends to a shared slice on write so tests can observe
// dispatch order.
type orderSink struct {
	path   string
	record func()
}

func (o *orderSink) Path() string       { return o.path }
func (o *orderSink) Threshold() Level   { return Level(-4) }
func (o *orderSink) Write([]byte) error { o.record(); return nil }
func (o *orderSink) Close() error       { return nil }

func TestRegistryReopen(t *testing.T) {
	t.Parallel()

	r := NewRegistry(func(string, error) {})

	// Absent path.
	found, err := r.Reopen("/tmp/absent.log")
	if err != nil {
		t.Fatalf("Reopen returned error for absent path: %v", err)
	}
	if found {
		t.Fatal("Reopen reported a sink for an absent path")
	}

	// A sink without Reopen support.
	r.Add(&fakeSink{path: "/tmp/plain.log"})
	found, err = r.Reopen("/tmp/plain.log")
	if !found {
		t.Fatal("Reopen did not find the registered sink")
	}
	if err == nil {
		t.Fatal("Reopen succeeded on a sink without reopen support")
	}
}

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
	"fmt"
	"os"
	"sync"
)

// ErrorHandler receives failures that occur while writing to or closing a
// single sink. Handlers must not log back through the registry.
type ErrorHandler func(path string, err error)

// StderrErrorHandler is the default ErrorHandler; it prints a diagnostic
// line to stderr so a failing sink never crashes the host program.
func StderrErrorHandler(path string, err error) {
	fmt.Fprintf(os.Stderr, "[convlog] sink %q: %v\n", path, err)
}

// Registry holds the live set of sinks, keyed by canonical destination
// path. A single mutex guards both registry mutation and record dispatch so
// sink membership cannot change mid-fan-out.
type Registry struct {
	mu      sync.Mutex
	sinks   map[string]Sink
	order   []string
	onError ErrorHandler
}

// NewRegistry creates an empty registry. A nil handler selects
// StderrErrorHandler.
func NewRegistry(onError ErrorHandler) *Registry {
	if onError == nil {
		onError = StderrErrorHandler
	}
	return &Registry{
		sinks:   make(map[string]Sink),
		onError: onError,
	}
}

// Add installs s under its canonical path. Re-adding a path replaces the
// prior sink: the old one is closed and deregistered rather than
// duplicated.
func (r *Registry) Add(s Sink) {
	key := canonicalPath(s.Path())

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.sinks[key]; ok {
		if err := old.Close(); err != nil {
			r.onError(key, fmt.Errorf("close replaced sink: %w", err))
		}
		r.sinks[key] = s
		return
	}
	r.sinks[key] = s
	r.order = append(r.order, key)
}

// Remove closes and deregisters the sink at path. It reports whether a sink
// existed there; removing an absent path is a no-op.
func (r *Registry) Remove(path string) bool {
	key := canonicalPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sinks[key]
	if !ok {
		return false
	}
	if err := s.Close(); err != nil {
		r.onError(key, fmt.Errorf("close sink: %w", err))
	}
	delete(r.sinks, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveAll closes and deregisters every sink.
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, s := range r.sinks {
		if err := s.Close(); err != nil {
			r.onError(key, fmt.Errorf("close sink: %w", err))
		}
	}
	r.sinks = make(map[string]Sink)
	r.order = r.order[:0]
}

// Dispatch writes line to every registered sink whose threshold admits
// level. A failure on one sink is reported through the error handler and
// does not prevent delivery to the remaining sinks. The registry lock is
// held for the whole fan-out.
func (r *Registry) Dispatch(level Level, line []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range r.order {
		s := r.sinks[key]
		if level < s.Threshold() {
			continue
		}
		if err := s.Write(line); err != nil {
			r.onError(key, err)
		}
	}
}

// Reopen closes and reopens the underlying handle of the sink at path when
// the sink supports it, for integration with external rotation tools. It
// returns false when no sink exists at path.
func (r *Registry) Reopen(path string) (bool, error) {
	key := canonicalPath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sinks[key]
	if !ok {
		return false, nil
	}
	reopener, ok := s.(interface{ Reopen() error })
	if !ok {
		return true, fmt.Errorf("sink %q does not support reopen", key)
	}
	return true, reopener.Reopen()
}

// Len reports the number of registered sinks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sinks)
}

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

package convlog

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/convlog/convlog/internal/sink"
)

// The process-wide logger. Every call site that uses Init or Default
// observes the same instance and therefore the same sink set; this shared
// state is the point of the facade, so all of a process's records funnel
// through one registry.
var (
	globalMu sync.Mutex
	global   *Logger
)

// Init establishes the process-wide logger, applying opts only on the first
// call. Later calls return the already-established instance unchanged, so
// the single-instance-per-process contract holds even under concurrent
// first use. Call Shutdown to tear the instance down.
func Init(opts ...Option) (*Logger, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return global, nil
	}
	l, err := New(opts...)
	if err != nil {
		return nil, err
	}
	global = l
	return global, nil
}

// Default returns the process-wide logger, lazily initializing it with
// default settings when Init has not run.
func Default() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		l, err := New()
		if err != nil {
			// Defaults register only the console sink, so this path is
			// unreachable today; keep the process alive regardless.
			fmt.Fprintf(os.Stderr, "[convlog] default logger init: %v\n", err)
			l = &Logger{
				scope:    defaultScope,
				level:    new(atomic.Int32),
				registry: sink.NewRegistry(nil),
				now:      time.Now,
			}
		}
		global = l
	}
	return global
}

// Shutdown closes every sink of the process-wide logger and clears the
// instance so a later Init starts fresh. It is a no-op when no instance
// exists.
func Shutdown() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		return nil
	}
	err := global.Close()
	global = nil
	return err
}

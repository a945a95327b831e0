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
	"io"
	"testing"
)

// The process-wide logger is shared state, so these tests run sequentially
// within a single test function.
func TestProcessWideLogger(t *testing.T) {
	if err := Shutdown(); err != nil {
		t.Fatalf("initial Shutdown returned error: %v", err)
	}
	t.Cleanup(func() { _ = Shutdown() })

	first, err := Init(WithConsoleWriter(io.Discard), WithScope("proc"))
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if got, want := first.Scope(), "proc"; got != want {
		t.Fatalf("scope = %q, want %q", got, want)
	}

	// A second Init returns the established instance and ignores its
	// options.
	second, err := Init(WithScope("other"))
	if err != nil {
		t.Fatalf("second Init returned error: %v", err)
	}
	if second != first {
		t.Fatal("second Init returned a different instance")
	}
	if got, want := second.Scope(), "proc"; got != want {
		t.Fatalf("scope after second Init = %q, want %q", got, want)
	}

	if Default() != first {
		t.Fatal("Default returned a different instance than Init")
	}

	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}

	// After Shutdown a fresh instance can be established.
	third, err := Init(WithConsoleWriter(io.Discard), WithScope("fresh"))
	if err != nil {
		t.Fatalf("Init after Shutdown returned error: %v", err)
	}
	if third == first {
		t.Fatal("Init after Shutdown returned the torn-down instance")
	}
	if got, want := third.Scope(), "fresh"; got != want {
		t.Fatalf("scope = %q, want %q", got, want)
	}
}

func TestDefaultLazyInit(t *testing.T) {
	if err := Shutdown(); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	t.Cleanup(func() { _ = Shutdown() })

	l := Default()
	if l == nil {
		t.Fatal("Default returned nil")
	}
	if Default() != l {
		t.Fatal("repeated Default returned a different instance")
	}
}

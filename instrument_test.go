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

import "testing"

func TestInstrument(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(t)
	done := l.Instrument("resize", F("w", 640), F("h", 480))
	done(F("ok", true))

	records := decodeLogLines(t, buf.Bytes())
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	entry := records[0]
	if got, want := entry["severity"], "INFO"; got != want {
		t.Errorf("entry severity = %v, want %v", got, want)
	}
	if got, want := entry["message"], "function resize called"; got != want {
		t.Errorf("entry message = %v, want %v", got, want)
	}
	entryFields := fieldsOf(t, entry)
	if got, want := entryFields["w"], float64(640); got != want {
		t.Errorf("entry fields.w = %v, want %v", got, want)
	}

	exit := records[1]
	if got, want := exit["severity"], "DEBUG"; got != want {
		t.Errorf("exit severity = %v, want %v", got, want)
	}
	if got, want := exit["message"], "function resize returned"; got != want {
		t.Errorf("exit message = %v, want %v", got, want)
	}
	exitFields := fieldsOf(t, exit)
	if got, want := exitFields["ok"], true; got != want {
		t.Errorf("exit fields.ok = %v, want %v", got, want)
	}
	if _, ok := exitFields["elapsed_ms"]; !ok {
		t.Error("exit record missing elapsed_ms")
	}
}

func TestInstrumentCallerElapsedWins(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(t)
	done := l.Instrument("noop")
	done(F("elapsed_ms", int64(-1)))

	records := decodeLogLines(t, buf.Bytes())
	exitFields := fieldsOf(t, records[len(records)-1])
	if got, want := exitFields["elapsed_ms"], float64(-1); got != want {
		t.Fatalf("elapsed_ms = %v, want caller value %v", got, want)
	}
}

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

import "time"

// Instrument logs entry into a named function region at INFO with the
// given argument fields and returns a completion func the caller defers.
// The completion func logs at DEBUG with the caller-chosen result fields
// plus the elapsed time in milliseconds.
//
// This is an explicit, opt-in wrapper: the caller decides which arguments
// and results are worth recording.
//
//	func resize(img image.Image, w, h int) image.Image {
//	    done := logger.Instrument("resize", convlog.F("w", w), convlog.F("h", h))
//	    out := doResize(img, w, h)
//	    done(convlog.F("bounds", out.Bounds().String()))
//	    return out
//	}
func (l *Logger) Instrument(name string, args ...Field) func(results ...Field) {
	start := time.Now()
	if err := l.Info(Text("function "+name+" called"), args...); err != nil {
		// A conflicting argument key should not break the instrumented
		// function; record the problem instead.
		_ = l.Warning(Text("function "+name+" arguments not recorded"), Err(err))
	}
	return func(results ...Field) {
		fields := mergeExtra(copyFields(results),
			Field{Key: "elapsed_ms", Value: time.Since(start).Milliseconds()},
		)
		if err := l.Debug(Text("function "+name+" returned"), fields...); err != nil {
			_ = l.Warning(Text("function "+name+" results not recorded"), Err(err))
		}
	}
}

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
	"path/filepath"
	"runtime"
	"strings"
)

// CallSite describes the source location that invoked a public logging
// method. Module is the source file's base name without its ".go" suffix,
// Function is the short function name, and Line is the line number of the
// call.
type CallSite struct {
	Module   string
	Function string
	Line     int
}

// captureCallSite resolves the frame skip levels above its own caller.
// It returns ok=false when the runtime cannot provide a frame, in which
// case no call-site metadata is attached to the record.
func captureCallSite(skip int) (CallSite, bool) {
	var pcs [1]uintptr
	// +2 accounts for runtime.Callers itself and this function.
	if runtime.Callers(skip+2, pcs[:]) == 0 {
		return CallSite{}, false
	}
	frame, _ := runtime.CallersFrames(pcs[:]).Next()
	if frame.File == "" && frame.Function == "" {
		return CallSite{}, false
	}
	return CallSite{
		Module:   moduleFromFile(frame.File),
		Function: shortFunction(frame.Function),
		Line:     frame.Line,
	}, true
}

// moduleFromFile derives the module attribute from a source path:
// "/src/app/main.go" becomes "main".
func moduleFromFile(file string) string {
	if file == "" {
		return ""
	}
	return strings.TrimSuffix(filepath.Base(file), ".go")
}

// shortFunction trims the package path and package name from a fully
// qualified function name: "example.com/app/web.(*Server).Start" becomes
// "(*Server).Start".
func shortFunction(fn string) string {
	if fn == "" {
		return ""
	}
	if idx := strings.LastIndexByte(fn, '/'); idx >= 0 {
		fn = fn[idx+1:]
	}
	if idx := strings.IndexByte(fn, '.'); idx >= 0 {
		fn = fn[idx+1:]
	}
	return fn
}

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

// Package sink implements the destinations a formatted log line can be
// written to and the registry that fans records out to them. Sinks move
// through a fixed lifecycle: unopened (when opening is deferred), open, and
// closed. Rotation is a self-transition while open; closed is terminal.
package sink

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// Level mirrors the root package's severity values so sinks can hold
// thresholds without importing it. The root package converts both ways; the
// integer values are identical by construction.
type Level int

// ErrClosed is returned when a line is written to a sink that has already
// been closed. This indicates a caller bug; closed sinks never reopen.
var ErrClosed = errors.New("sink: write to closed sink")

// state tracks a sink's position in the unopened -> open -> closed
// lifecycle.
type state int

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)

// Sink is a single registered destination for formatted log lines. Write
// receives complete newline-terminated lines and must persist them before
// returning; implementations do not buffer.
type Sink interface {
	// Path is the canonical registry key for this sink.
	Path() string

	// Threshold is the minimum level this sink accepts. Records below it
	// are dropped for this sink only.
	Threshold() Level

	// Write appends one newline-terminated line.
	Write(line []byte) error

	// Close releases the underlying handle. Closed sinks reject further
	// writes with ErrClosed.
	Close() error
}

// ConsolePath is the sentinel registry key identifying the console sink.
const ConsolePath = "console"

// Console writes lines to a terminal stream, stdout by default.
type Console struct {
	w         io.Writer
	threshold Level
	closed    bool
}

// NewConsole creates a console sink writing to w; a nil w selects
// os.Stdout.
func NewConsole(w io.Writer, threshold Level) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w, threshold: threshold}
}

// Path returns the console sentinel.
func (c *Console) Path() string { return ConsolePath }

// Threshold returns the sink's minimum level.
func (c *Console) Threshold() Level { return c.threshold }

// Write sends the line to the console stream.
func (c *Console) Write(line []byte) error {
	if c.closed {
		return ErrClosed
	}
	_, err := c.w.Write(line)
	return err
}

// Close marks the sink closed. The underlying stream (stdout) is not
// closed; it belongs to the process.
func (c *Console) Close() error {
	c.closed = true
	return nil
}

// canonicalPath normalizes a destination path into the registry key form.
func canonicalPath(path string) string {
	if path == ConsolePath {
		return path
	}
	return filepath.Clean(path)
}

// ensureParentDir creates the destination's parent directories as needed.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

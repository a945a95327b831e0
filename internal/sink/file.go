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
	"io"
	"os"
	"sync"
)

// SwitchableWriter is an io.Writer whose underlying writer can be swapped
// atomically. The file sink routes writes through one so Reopen can replace
// the descriptor after an external tool (such as logrotate) renames the
// active file, without rebuilding the sink.
type SwitchableWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSwitchableWriter creates a SwitchableWriter over initial; a nil
// initial defaults to io.Discard.
func NewSwitchableWriter(initial io.Writer) *SwitchableWriter {
	if initial == nil {
		initial = io.Discard
	}
	return &SwitchableWriter{w: initial}
}

// Write directs p to the current underlying writer. Safe for concurrent
// use.
func (sw *SwitchableWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.w == nil {
		return 0, os.ErrClosed
	}
	return sw.w.Write(p)
}

// SetWriter atomically replaces the underlying writer. The previous writer
// is not closed; its lifecycle belongs to the caller. A nil writer directs
// subsequent writes to io.Discard.
func (sw *SwitchableWriter) SetWriter(w io.Writer) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	sw.w = w
}

// Close closes the current underlying writer if it implements io.Closer and
// then points the SwitchableWriter at io.Discard. Idempotent.
func (sw *SwitchableWriter) Close() error {
	sw.mu.Lock()
	toClose := sw.w
	sw.w = io.Discard
	sw.mu.Unlock()

	if c, ok := toClose.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close current writer: %w", err)
		}
	}
	return nil
}

var _ io.WriteCloser = (*SwitchableWriter)(nil)

// File is a plain append-mode file sink. Opening may be deferred until the
// first write; every write goes straight to the descriptor so a record is
// durable before the call returns.
type File struct {
	path      string
	threshold Level

	st   state
	file *os.File
	sw   *SwitchableWriter
}

// NewFile creates a file sink for path, creating parent directories as
// needed. When delay is true the file is opened on first write instead of
// immediately.
func NewFile(path string, threshold Level, delay bool) (*File, error) {
	f := &File{
		path:      canonicalPath(path),
		threshold: threshold,
		sw:        NewSwitchableWriter(nil),
	}
	if err := ensureParentDir(f.path); err != nil {
		return nil, fmt.Errorf("sink: create parent directories for %q: %w", f.path, err)
	}
	if !delay {
		if err := f.open(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// open transitions the sink from unopened to open.
func (f *File) open() error {
	handle, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("sink: open %q: %w", f.path, err)
	}
	f.file = handle
	f.sw.SetWriter(handle)
	f.st = stateOpen
	return nil
}

// Path returns the canonical destination path.
func (f *File) Path() string { return f.path }

// Threshold returns the sink's minimum level.
func (f *File) Threshold() Level { return f.threshold }

// Write appends one line, opening the file first when opening was deferred.
func (f *File) Write(line []byte) error {
	switch f.st {
	case stateClosed:
		return ErrClosed
	case stateUnopened:
		if err := f.open(); err != nil {
			return err
		}
	}
	_, err := f.sw.Write(line)
	return err
}

// Reopen closes the current descriptor and opens a fresh one at the same
// path, picking up a new inode after an external rename. An unopened sink
// stays unopened.
func (f *File) Reopen() error {
	switch f.st {
	case stateClosed:
		return ErrClosed
	case stateUnopened:
		return nil
	}
	if f.file != nil {
		if err := f.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[convlog] close %q during reopen: %v\n", f.path, err)
		}
		f.file = nil
	}
	return f.open()
}

// Close releases the descriptor and makes the sink terminal.
func (f *File) Close() error {
	if f.st == stateClosed {
		return nil
	}
	f.st = stateClosed
	f.sw.SetWriter(nil)
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	if err != nil {
		return fmt.Errorf("sink: close %q: %w", f.path, err)
	}
	return nil
}

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
	"strconv"
)

// Default rotation policy for size-rotated sinks.
const (
	// DefaultMaxBytes is the size ceiling before rotation, 30 MiB.
	DefaultMaxBytes int64 = 30 * 1024 * 1024

	// DefaultBackupCount is the number of numbered backups retained.
	DefaultBackupCount = 5
)

// RotatingFile is a file sink that rotates when a write would push the
// active file past maxBytes. Backups are numbered path.1 (newest) through
// path.N (oldest); the backup beyond the retention count is deleted.
type RotatingFile struct {
	path        string
	threshold   Level
	maxBytes    int64
	backupCount int

	st   state
	file *os.File
	size int64
}

// NewRotatingFile creates a size-rotated sink. maxBytes and backupCount
// fall back to the defaults when non-positive and negative respectively;
// backupCount zero disables backups, truncating on rotation. When delay is
// true the file is opened on first write.
func NewRotatingFile(path string, threshold Level, maxBytes int64, backupCount int, delay bool) (*RotatingFile, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if backupCount < 0 {
		backupCount = DefaultBackupCount
	}
	r := &RotatingFile{
		path:        canonicalPath(path),
		threshold:   threshold,
		maxBytes:    maxBytes,
		backupCount: backupCount,
	}
	if err := ensureParentDir(r.path); err != nil {
		return nil, fmt.Errorf("sink: create parent directories for %q: %w", r.path, err)
	}
	if !delay {
		if err := r.open(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// open transitions the sink to open and records the current file size so
// rotation decisions account for pre-existing content.
func (r *RotatingFile) open() error {
	handle, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("sink: open %q: %w", r.path, err)
	}
	info, err := handle.Stat()
	if err != nil {
		_ = handle.Close()
		return fmt.Errorf("sink: stat %q: %w", r.path, err)
	}
	r.file = handle
	r.size = info.Size()
	r.st = stateOpen
	return nil
}

// Path returns the canonical destination path.
func (r *RotatingFile) Path() string { return r.path }

// Threshold returns the sink's minimum level.
func (r *RotatingFile) Threshold() Level { return r.threshold }

// Write appends one line, rotating first when the line would exceed the
// size ceiling. A single line larger than maxBytes is still written; it
// lands alone in a fresh file.
func (r *RotatingFile) Write(line []byte) error {
	switch r.st {
	case stateClosed:
		return ErrClosed
	case stateUnopened:
		if err := r.open(); err != nil {
			return err
		}
	}
	if r.size > 0 && r.size+int64(len(line)) > r.maxBytes {
		if err := r.rotate(); err != nil {
			return err
		}
	}
	n, err := r.file.Write(line)
	r.size += int64(n)
	if err != nil {
		return fmt.Errorf("sink: write %q: %w", r.path, err)
	}
	return nil
}

// rotate shifts the numbered backup chain up by one, moves the active file
// to path.1, and reopens a fresh active file. With a zero backup count the
// active file is simply truncated.
func (r *RotatingFile) rotate() error {
	if err := r.file.Close(); err != nil {
		return fmt.Errorf("sink: close %q for rotation: %w", r.path, err)
	}
	r.file = nil

	if r.backupCount > 0 {
		oldest := r.backupName(r.backupCount)
		if _, err := os.Stat(oldest); err == nil {
			if err := os.Remove(oldest); err != nil {
				return fmt.Errorf("sink: remove oldest backup %q: %w", oldest, err)
			}
		}
		for i := r.backupCount - 1; i >= 1; i-- {
			src := r.backupName(i)
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := os.Rename(src, r.backupName(i+1)); err != nil {
				return fmt.Errorf("sink: shift backup %q: %w", src, err)
			}
		}
		if err := os.Rename(r.path, r.backupName(1)); err != nil {
			return fmt.Errorf("sink: archive %q: %w", r.path, err)
		}
	} else {
		if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("sink: truncate %q: %w", r.path, err)
		}
	}

	r.st = stateUnopened
	return r.open()
}

// backupName returns the numbered backup path for index i.
func (r *RotatingFile) backupName(i int) string {
	return r.path + "." + strconv.Itoa(i)
}

// Close releases the descriptor and makes the sink terminal.
func (r *RotatingFile) Close() error {
	if r.st == stateClosed {
		return nil
	}
	prev := r.st
	r.st = stateClosed
	if prev != stateOpen || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if err != nil {
		return fmt.Errorf("sink: close %q: %w", r.path, err)
	}
	return nil
}

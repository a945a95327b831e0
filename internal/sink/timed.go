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
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// RotationUnit selects the schedule a time-rotated sink follows.
type RotationUnit int

// Rotation schedule units.
const (
	// RotateSecond rotates every interval seconds.
	RotateSecond RotationUnit = iota
	// RotateMinute rotates every interval minutes.
	RotateMinute
	// RotateHour rotates every interval hours.
	RotateHour
	// RotateDay rotates every interval periods of 24 hours from startup.
	RotateDay
	// RotateMidnight rotates at midnight, every interval days.
	RotateMidnight
	// RotateWeekday rotates at midnight on a fixed day of the week.
	RotateWeekday
)

// DefaultTimedBackupCount is the number of timestamped backups retained by
// time-rotated sinks.
const DefaultTimedBackupCount = 7

// Timestamp suffix layouts for rotated files. Both sort lexicographically
// in chronological order, which the pruning pass relies on.
const (
	suffixLayoutSubDay = "2006-01-02_15-04-05"
	suffixLayoutDaily  = "2006-01-02"
)

// TimedRotatingFile is a file sink that rotates on a fixed schedule,
// renaming the active file with a timestamp suffix and pruning timestamped
// backups beyond the retention count.
type TimedRotatingFile struct {
	path        string
	threshold   Level
	unit        RotationUnit
	interval    int
	weekday     time.Weekday
	backupCount int
	utc         bool

	// now is the schedule clock; replaced in tests.
	now func() time.Time

	st         state
	file       *os.File
	rolloverAt time.Time
}

// TimedConfig carries the schedule policy for NewTimedRotatingFile.
type TimedConfig struct {
	Unit        RotationUnit
	Interval    int          // multiplier for the unit; minimum 1
	Weekday     time.Weekday // only consulted for RotateWeekday
	BackupCount int          // negative selects DefaultTimedBackupCount
	UTC         bool         // schedule against UTC instead of local time
	Delay       bool         // defer opening until first write
	Clock       func() time.Time
}

// NewTimedRotatingFile creates a schedule-rotated sink for path, creating
// parent directories as needed.
func NewTimedRotatingFile(path string, threshold Level, cfg TimedConfig) (*TimedRotatingFile, error) {
	if cfg.Interval < 1 {
		cfg.Interval = 1
	}
	if cfg.BackupCount < 0 {
		cfg.BackupCount = DefaultTimedBackupCount
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	t := &TimedRotatingFile{
		path:        canonicalPath(path),
		threshold:   threshold,
		unit:        cfg.Unit,
		interval:    cfg.Interval,
		weekday:     cfg.Weekday,
		backupCount: cfg.BackupCount,
		utc:         cfg.UTC,
		now:         cfg.Clock,
	}
	if err := ensureParentDir(t.path); err != nil {
		return nil, fmt.Errorf("sink: create parent directories for %q: %w", t.path, err)
	}
	t.rolloverAt = t.nextRollover(t.schedTime(t.now()))
	if !cfg.Delay {
		if err := t.open(); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// schedTime places an instant in the zone the schedule is computed in.
func (t *TimedRotatingFile) schedTime(ts time.Time) time.Time {
	if t.utc {
		return ts.UTC()
	}
	return ts.Local()
}

// nextRollover computes the first rotation instant after now.
func (t *TimedRotatingFile) nextRollover(now time.Time) time.Time {
	switch t.unit {
	case RotateSecond:
		return now.Add(time.Duration(t.interval) * time.Second)
	case RotateMinute:
		return now.Add(time.Duration(t.interval) * time.Minute)
	case RotateHour:
		return now.Add(time.Duration(t.interval) * time.Hour)
	case RotateDay:
		return now.Add(time.Duration(t.interval) * 24 * time.Hour)
	case RotateMidnight:
		next := midnightAfter(now)
		if t.interval > 1 {
			next = next.AddDate(0, 0, t.interval-1)
		}
		return next
	case RotateWeekday:
		next := midnightAfter(now)
		for next.Weekday() != t.weekday {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}
	return now.Add(24 * time.Hour)
}

// midnightAfter returns the first midnight strictly after ts, in ts's zone.
func midnightAfter(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location()).AddDate(0, 0, 1)
}

// suffixLayout returns the timestamp layout used for rotated file names.
func (t *TimedRotatingFile) suffixLayout() string {
	switch t.unit {
	case RotateSecond, RotateMinute, RotateHour:
		return suffixLayoutSubDay
	}
	return suffixLayoutDaily
}

// open transitions the sink to open.
func (t *TimedRotatingFile) open() error {
	handle, err := os.OpenFile(t.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("sink: open %q: %w", t.path, err)
	}
	t.file = handle
	t.st = stateOpen
	return nil
}

// Path returns the canonical destination path.
func (t *TimedRotatingFile) Path() string { return t.path }

// Threshold returns the sink's minimum level.
func (t *TimedRotatingFile) Threshold() Level { return t.threshold }

// Write appends one line, rotating first when the schedule has elapsed.
func (t *TimedRotatingFile) Write(line []byte) error {
	switch t.st {
	case stateClosed:
		return ErrClosed
	case stateUnopened:
		if err := t.open(); err != nil {
			return err
		}
	}
	now := t.schedTime(t.now())
	if !now.Before(t.rolloverAt) {
		if err := t.rotate(now); err != nil {
			return err
		}
	}
	if _, err := t.file.Write(line); err != nil {
		return fmt.Errorf("sink: write %q: %w", t.path, err)
	}
	return nil
}

// rotate archives the active file under a timestamp suffix, prunes old
// backups, reopens a fresh file, and advances the schedule past now.
func (t *TimedRotatingFile) rotate(now time.Time) error {
	if err := t.file.Close(); err != nil {
		return fmt.Errorf("sink: close %q for rotation: %w", t.path, err)
	}
	t.file = nil

	// Name the backup after the period that just ended, not the rotation
	// instant.
	backup := t.path + "." + t.rolloverAt.Add(-time.Second).Format(t.suffixLayout())
	if _, err := os.Stat(backup); err == nil {
		if err := os.Remove(backup); err != nil {
			return fmt.Errorf("sink: remove stale backup %q: %w", backup, err)
		}
	}
	if err := os.Rename(t.path, backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("sink: archive %q: %w", t.path, err)
	}

	if err := t.pruneBackups(); err != nil {
		return err
	}

	for !now.Before(t.rolloverAt) {
		t.rolloverAt = t.nextRollover(t.rolloverAt)
	}

	t.st = stateUnopened
	return t.open()
}

// pruneBackups deletes the oldest timestamped backups beyond the retention
// count. The timestamp layouts sort lexicographically, so name order is
// chronological order.
func (t *TimedRotatingFile) pruneBackups() error {
	if t.backupCount <= 0 {
		return nil
	}
	dir := filepath.Dir(t.path)
	prefix := filepath.Base(t.path) + "."
	layout := t.suffixLayout()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("sink: scan backups in %q: %w", dir, err)
	}
	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if _, err := time.Parse(layout, strings.TrimPrefix(name, prefix)); err != nil {
			continue
		}
		backups = append(backups, name)
	}
	if len(backups) <= t.backupCount {
		return nil
	}
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-t.backupCount] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("sink: prune backup %q: %w", name, err)
		}
	}
	return nil
}

// Close releases the descriptor and makes the sink terminal.
func (t *TimedRotatingFile) Close() error {
	if t.st == stateClosed {
		return nil
	}
	prev := t.st
	t.st = stateClosed
	if prev != stateOpen || t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	if err != nil {
		return fmt.Errorf("sink: close %q: %w", t.path, err)
	}
	return nil
}

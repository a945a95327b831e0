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
	"time"

	"github.com/convlog/convlog/internal/sink"
)

// Option configures a Logger during construction. Options are applied in
// order and override environment-derived settings.
type Option func(*options)

// options collects construction settings. Fields are pointers where an
// explicit zero value must be distinguishable from an unset option.
type options struct {
	level         *Severity
	scope         *string
	console       *bool
	consoleWriter io.Writer
	onSinkError   func(path string, err error)
}

// WithLevel sets the logger's minimum severity, overriding CONVLOG_LEVEL.
func WithLevel(level Severity) Option {
	return func(o *options) {
		l := level
		o.level = &l
	}
}

// WithScope sets the default scope stamped on records, overriding
// CONVLOG_SCOPE.
func WithScope(scope string) Option {
	return func(o *options) {
		s := scope
		o.scope = &s
	}
}

// WithConsole enables or disables the console sink, overriding
// CONVLOG_CONSOLE. The console sink is enabled by default.
func WithConsole(enabled bool) Option {
	return func(o *options) {
		e := enabled
		o.console = &e
	}
}

// WithConsoleWriter redirects the console sink to w instead of stdout. It
// implies WithConsole(true).
func WithConsoleWriter(w io.Writer) Option {
	return func(o *options) {
		o.consoleWriter = w
		e := true
		o.console = &e
	}
}

// WithSinkErrorHandler installs fn to receive per-sink write and close
// failures in place of the default stderr diagnostic. The handler must not
// log back through this logger.
func WithSinkErrorHandler(fn func(path string, err error)) Option {
	return func(o *options) {
		o.onSinkError = fn
	}
}

// RotationUnit selects the schedule a time-rotated handler follows.
type RotationUnit int

// Rotation schedule units for AddTimedRotatingFileHandler.
const (
	// RotateSecond rotates every interval seconds.
	RotateSecond RotationUnit = RotationUnit(sink.RotateSecond)
	// RotateMinute rotates every interval minutes.
	RotateMinute RotationUnit = RotationUnit(sink.RotateMinute)
	// RotateHour rotates every interval hours.
	RotateHour RotationUnit = RotationUnit(sink.RotateHour)
	// RotateDay rotates every interval periods of 24 hours.
	RotateDay RotationUnit = RotationUnit(sink.RotateDay)
	// RotateMidnight rotates at midnight every interval days (default).
	RotateMidnight RotationUnit = RotationUnit(sink.RotateMidnight)
	// RotateWeekday rotates at midnight on the weekday chosen with
	// WithWeekday.
	RotateWeekday RotationUnit = RotationUnit(sink.RotateWeekday)
)

// HandlerOption configures a sink created by one of the Add*Handler
// methods. Options that do not apply to the handler kind being created are
// ignored.
type HandlerOption func(*handlerOptions)

// handlerOptions collects per-sink settings.
type handlerOptions struct {
	level       *Severity
	delay       bool
	maxBytes    int64
	backupCount *int
	unit        RotationUnit
	interval    int
	weekday     time.Weekday
	utc         bool
}

// defaultHandlerOptions returns the baseline policy: rotate at midnight
// daily, no deferred open, library defaults for size and retention.
func defaultHandlerOptions() handlerOptions {
	return handlerOptions{
		unit:     RotateMidnight,
		interval: 1,
	}
}

// WithHandlerLevel sets the sink's minimum severity threshold. Without it
// the sink inherits the logger's level at registration time.
func WithHandlerLevel(level Severity) HandlerOption {
	return func(o *handlerOptions) {
		l := level
		o.level = &l
	}
}

// WithDelay defers opening the destination file until the first write.
func WithDelay() HandlerOption {
	return func(o *handlerOptions) {
		o.delay = true
	}
}

// WithMaxBytes sets the size ceiling for a size-rotated handler. The
// default is 30 MiB.
func WithMaxBytes(n int64) HandlerOption {
	return func(o *handlerOptions) {
		o.maxBytes = n
	}
}

// WithBackupCount sets how many rotated backups are retained; the oldest
// beyond the count is deleted. Defaults: 5 for size rotation, 7 for time
// rotation.
func WithBackupCount(n int) HandlerOption {
	return func(o *handlerOptions) {
		c := n
		o.backupCount = &c
	}
}

// WithRotationUnit selects the schedule unit for a time-rotated handler.
// The default is RotateMidnight.
func WithRotationUnit(unit RotationUnit) HandlerOption {
	return func(o *handlerOptions) {
		o.unit = unit
	}
}

// WithRotationInterval sets the schedule multiplier for a time-rotated
// handler, e.g. RotateHour with interval 6. The default is 1.
func WithRotationInterval(n int) HandlerOption {
	return func(o *handlerOptions) {
		o.interval = n
	}
}

// WithWeekday selects the rotation day for RotateWeekday schedules.
func WithWeekday(day time.Weekday) HandlerOption {
	return func(o *handlerOptions) {
		o.weekday = day
		o.unit = RotateWeekday
	}
}

// WithUTC schedules time rotation against UTC instead of local time.
func WithUTC() HandlerOption {
	return func(o *handlerOptions) {
		o.utc = true
	}
}

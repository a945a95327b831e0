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
	"context"
	"sync/atomic"
	"time"

	"github.com/convlog/convlog/internal/sink"
)

// Logger formats leveled log calls into single-line JSON records and fans
// them out to its registered sinks. Loggers derived with WithScope share
// the same sink registry and level; all other state is immutable after
// construction.
//
// The dispatch path is synchronous: a record is built, serialized, and
// written to every qualifying sink before the call returns. The only error
// a logging method returns is *ConflictKeyError, which signals a bug in the
// caller's field naming; sink I/O failures are isolated per sink and
// reported through the sink error handler instead.
type Logger struct {
	scope    string
	level    *atomic.Int32
	registry *sink.Registry

	// now supplies record timestamps; replaced in tests.
	now func() time.Time
}

// New creates a Logger. Settings resolve in three tiers: built-in defaults,
// then CONVLOG_* environment variables, then the supplied options. Unless
// disabled, a console sink writing to stdout is registered under the
// "console" sentinel path.
//
// Most processes want a single shared instance; see Init and Default.
func New(opts ...Option) (*Logger, error) {
	cfg := loadConfig()

	var state options
	for _, opt := range opts {
		if opt != nil {
			opt(&state)
		}
	}
	if state.level != nil {
		cfg.level = *state.level
	}
	if state.scope != nil {
		cfg.scope = *state.scope
	}
	if state.console != nil {
		cfg.console = *state.console
	}

	var onError sink.ErrorHandler
	if state.onSinkError != nil {
		onError = sink.ErrorHandler(state.onSinkError)
	}

	l := &Logger{
		scope:    cfg.scope,
		level:    new(atomic.Int32),
		registry: sink.NewRegistry(onError),
		now:      time.Now,
	}
	l.level.Store(int32(cfg.level))

	if cfg.console {
		l.registry.Add(sink.NewConsole(state.consoleWriter, sink.Level(SeverityDebug)))
	}
	return l, nil
}

// WithScope returns a derived logger whose records carry scope instead of
// the receiver's. The derived logger shares the receiver's sinks and level.
func (l *Logger) WithScope(scope string) *Logger {
	clone := *l
	clone.scope = scope
	return &clone
}

// Scope returns the scope stamped on this logger's records.
func (l *Logger) Scope() string { return l.scope }

// SetLevel changes the minimum severity. Records below it are dropped
// before any sink is consulted. The change is visible to every logger
// derived from the same instance.
func (l *Logger) SetLevel(level Severity) { l.level.Store(int32(level)) }

// GetLevel returns the current minimum severity.
func (l *Logger) GetLevel() Severity { return Severity(l.level.Load()) }

// Debug logs at SeverityDebug.
func (l *Logger) Debug(msg Message, fields ...Field) error {
	return l.dispatch(nil, SeverityDebug, msg, fields)
}

// Info logs at SeverityInfo.
func (l *Logger) Info(msg Message, fields ...Field) error {
	return l.dispatch(nil, SeverityInfo, msg, fields)
}

// Warning logs at SeverityWarning.
func (l *Logger) Warning(msg Message, fields ...Field) error {
	return l.dispatch(nil, SeverityWarning, msg, fields)
}

// Error logs at SeverityError. The record's fields gain the call site's
// module, function, and line.
func (l *Logger) Error(msg Message, fields ...Field) error {
	return l.dispatch(nil, SeverityError, msg, fields)
}

// Critical logs at SeverityCritical with call-site enrichment.
func (l *Logger) Critical(msg Message, fields ...Field) error {
	return l.dispatch(nil, SeverityCritical, msg, fields)
}

// Exception is an alias for Error. It exists for callers porting code that
// distinguishes the two; there is no implicit traceback capture beyond the
// fields the caller supplies.
func (l *Logger) Exception(msg Message, fields ...Field) error {
	return l.dispatch(nil, SeverityError, msg, fields)
}

// DebugContext logs at SeverityDebug with trace correlation from ctx.
func (l *Logger) DebugContext(ctx context.Context, msg Message, fields ...Field) error {
	return l.dispatch(ctx, SeverityDebug, msg, fields)
}

// InfoContext logs at SeverityInfo with trace correlation from ctx.
func (l *Logger) InfoContext(ctx context.Context, msg Message, fields ...Field) error {
	return l.dispatch(ctx, SeverityInfo, msg, fields)
}

// WarningContext logs at SeverityWarning with trace correlation from ctx.
func (l *Logger) WarningContext(ctx context.Context, msg Message, fields ...Field) error {
	return l.dispatch(ctx, SeverityWarning, msg, fields)
}

// ErrorContext logs at SeverityError with trace correlation from ctx and
// call-site enrichment.
func (l *Logger) ErrorContext(ctx context.Context, msg Message, fields ...Field) error {
	return l.dispatch(ctx, SeverityError, msg, fields)
}

// CriticalContext logs at SeverityCritical with trace correlation from ctx
// and call-site enrichment.
func (l *Logger) CriticalContext(ctx context.Context, msg Message, fields ...Field) error {
	return l.dispatch(ctx, SeverityCritical, msg, fields)
}

// ExceptionContext is an alias for ErrorContext.
func (l *Logger) ExceptionContext(ctx context.Context, msg Message, fields ...Field) error {
	return l.dispatch(ctx, SeverityError, msg, fields)
}

// Log is the generic entry point for callers that compute the severity.
func (l *Logger) Log(ctx context.Context, severity Severity, msg Message, fields ...Field) error {
	return l.dispatch(ctx, severity, msg, fields)
}

// dispatch is the single pipeline every log call funnels through: resolve
// the effective scope, build the envelope, serialize, and fan out. All
// public logging methods call it directly so the call-site skip depth stays
// constant.
func (l *Logger) dispatch(ctx context.Context, severity Severity, msg Message, fields []Field) error {
	if severity < l.GetLevel() {
		return nil
	}

	var site *CallSite
	if severity >= SeverityError {
		if cs, ok := captureCallSite(2); ok {
			site = &cs
		}
	}

	env, err := buildEnvelope(severity, l.scope, msg, fields, site, l.now())
	if err != nil {
		return err
	}
	if ctx != nil {
		if tf := traceFields(ctx); len(tf) > 0 {
			env.Fields = mergeExtra(env.Fields, tf...)
		}
	}

	line, _ := serializeEnvelope(env)
	l.registry.Dispatch(sink.Level(severity), line)
	return nil
}

// AddFileHandler registers a plain append-mode file sink at path, creating
// parent directories as needed. Re-adding a path replaces the existing sink
// there. Honored options: WithHandlerLevel, WithDelay.
func (l *Logger) AddFileHandler(path string, opts ...HandlerOption) error {
	ho := l.applyHandlerOptions(opts)
	s, err := sink.NewFile(path, sink.Level(*ho.level), ho.delay)
	if err != nil {
		return err
	}
	l.registry.Add(s)
	return nil
}

// AddRotatingFileHandler registers a size-rotated file sink at path. The
// sink rotates when a write would exceed the size ceiling (default 30 MiB),
// keeping numbered backups (default 5). Honored options: WithHandlerLevel,
// WithDelay, WithMaxBytes, WithBackupCount.
func (l *Logger) AddRotatingFileHandler(path string, opts ...HandlerOption) error {
	ho := l.applyHandlerOptions(opts)
	backups := sink.DefaultBackupCount
	if ho.backupCount != nil {
		backups = *ho.backupCount
	}
	s, err := sink.NewRotatingFile(path, sink.Level(*ho.level), ho.maxBytes, backups, ho.delay)
	if err != nil {
		return err
	}
	l.registry.Add(s)
	return nil
}

// AddTimedRotatingFileHandler registers a schedule-rotated file sink at
// path. By default it rotates at local midnight daily and keeps 7
// timestamped backups. Honored options: WithHandlerLevel, WithDelay,
// WithRotationUnit, WithRotationInterval, WithWeekday, WithBackupCount,
// WithUTC.
func (l *Logger) AddTimedRotatingFileHandler(path string, opts ...HandlerOption) error {
	ho := l.applyHandlerOptions(opts)
	backups := sink.DefaultTimedBackupCount
	if ho.backupCount != nil {
		backups = *ho.backupCount
	}
	s, err := sink.NewTimedRotatingFile(path, sink.Level(*ho.level), sink.TimedConfig{
		Unit:        sink.RotationUnit(ho.unit),
		Interval:    ho.interval,
		Weekday:     ho.weekday,
		BackupCount: backups,
		UTC:         ho.utc,
		Delay:       ho.delay,
	})
	if err != nil {
		return err
	}
	l.registry.Add(s)
	return nil
}

// applyHandlerOptions folds opts over the default policy, inheriting the
// logger's level when no explicit handler level was given.
func (l *Logger) applyHandlerOptions(opts []HandlerOption) handlerOptions {
	ho := defaultHandlerOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&ho)
		}
	}
	if ho.level == nil {
		level := l.GetLevel()
		ho.level = &level
	}
	return ho
}

// RemoveFileHandler closes and deregisters the sink at path. It reports
// whether a sink existed there; removing an absent path is a safe no-op.
func (l *Logger) RemoveFileHandler(path string) bool {
	return l.registry.Remove(path)
}

// RemoveAllFileHandlers closes and deregisters every sink, including the
// console sink.
func (l *Logger) RemoveAllFileHandlers() {
	l.registry.RemoveAll()
}

// ReopenFileHandler closes and reopens the plain file sink at path on the
// same path, for integration with external rotation tools such as logrotate
// that rename the active file and signal the process.
func (l *Logger) ReopenFileHandler(path string) error {
	_, err := l.registry.Reopen(path)
	return err
}

// Close closes and deregisters every sink. The logger remains usable but
// writes nowhere until new sinks are registered.
func (l *Logger) Close() error {
	l.registry.RemoveAll()
	return nil
}

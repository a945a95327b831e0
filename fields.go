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
	"sort"
	"strings"
)

// Field is a single key-value pair of caller-supplied context. Fields are
// kept as an ordered slice rather than a map so that emitted records
// preserve the caller's insertion order.
type Field struct {
	Key   string
	Value any
}

// F constructs a context Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err constructs a Field named "error" carrying the error's message. A nil
// error yields a nil value.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Names of the envelope attributes callers may not use as context keys.
const (
	keySeverity  = "severity"
	keyScope     = "scope"
	keyMessage   = "message"
	keyTimestamp = "timestamp"
	keyModule    = "module"
	keyFunction  = "function"
	keyLine      = "line"
)

// reservedKey reports whether key belongs to the record's own attribute
// namespace.
func reservedKey(key string) bool {
	switch key {
	case keySeverity, keyScope, keyMessage, keyTimestamp, keyModule, keyFunction, keyLine:
		return true
	}
	return false
}

// ConflictKeyError reports caller-supplied context keys that collide with
// the record's reserved attribute namespace. The collision is surfaced to
// the call site rather than resolved silently, because it signals a bug in
// the caller's field naming.
type ConflictKeyError struct {
	// Keys holds the offending key names, sorted and de-duplicated.
	Keys []string
}

// Error implements the error interface.
func (e *ConflictKeyError) Error() string {
	return "convlog: context keys conflict with reserved record attributes: " +
		strings.Join(e.Keys, ", ")
}

// checkConflicts scans fields for reserved keys and returns a
// *ConflictKeyError naming every offender, or nil when the set is clean.
func checkConflicts(fields []Field) error {
	var offending []string
	for _, f := range fields {
		if reservedKey(f.Key) {
			offending = append(offending, f.Key)
		}
	}
	if len(offending) == 0 {
		return nil
	}
	sort.Strings(offending)
	deduped := offending[:1]
	for _, k := range offending[1:] {
		if k != deduped[len(deduped)-1] {
			deduped = append(deduped, k)
		}
	}
	return &ConflictKeyError{Keys: deduped}
}

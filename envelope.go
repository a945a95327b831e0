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

// Envelope is the canonical field set of one log record, derived from a
// single log call and serialized exactly once. Fields preserves caller
// insertion order; it is nil when the caller supplied no context and the
// severity required no call-site enrichment.
type Envelope struct {
	Severity  Severity
	Scope     string
	Message   Message
	Timestamp time.Time
	Fields    []Field
}

// buildEnvelope produces the canonical field set for one record.
//
// The reserved-key collision check runs before any merge so the envelope's
// own attributes are never silently clobbered; a collision fails the call
// with *ConflictKeyError. For SeverityError and above, the call site's
// module, function, and line are merged into Fields without overwriting
// caller-supplied keys of the same name.
func buildEnvelope(severity Severity, scope string, msg Message, fields []Field, site *CallSite, now time.Time) (Envelope, error) {
	if err := checkConflicts(fields); err != nil {
		return Envelope{}, err
	}

	merged := copyFields(fields)
	if severity >= SeverityError && site != nil {
		merged = mergeExtra(merged,
			Field{Key: keyModule, Value: site.Module},
			Field{Key: keyFunction, Value: site.Function},
			Field{Key: keyLine, Value: site.Line},
		)
	}

	return Envelope{
		Severity:  severity,
		Scope:     scope,
		Message:   msg,
		Timestamp: now.UTC(),
		Fields:    merged,
	}, nil
}

// copyFields clones the caller's context, collapsing duplicate keys so the
// emitted object stays a valid JSON map: the first occurrence keeps its
// position and the last occurrence supplies the value.
func copyFields(fields []Field) []Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]Field, 0, len(fields))
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := index[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return out
}

// mergeExtra appends library-derived fields, skipping any key the caller
// already supplied. Caller values always win.
func mergeExtra(fields []Field, extra ...Field) []Field {
	for _, e := range extra {
		present := false
		for i := range fields {
			if fields[i].Key == e.Key {
				present = true
				break
			}
		}
		if !present {
			fields = append(fields, e)
		}
	}
	return fields
}

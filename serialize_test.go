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
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSerializeEnvelopeFixedKeyOrder(t *testing.T) {
	t.Parallel()

	env := Envelope{
		Severity:  SeverityInfo,
		Scope:     "web",
		Message:   Text("request handled"),
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC),
		Fields:    []Field{F("status", 200), F("path", "/x")},
	}
	line, fallback := serializeEnvelope(env)
	if fallback {
		t.Fatal("serializeEnvelope used the fallback for an encodable record")
	}
	want := `{"severity":"INFO","scope":"web","message":"request handled",` +
		`"timestamp":"2024-01-02T03:04:05.123456Z","fields":{"status":200,"path":"/x"}}` + "\n"
	if string(line) != want {
		t.Fatalf("line = %s, want %s", line, want)
	}
}

func TestSerializeEnvelopeOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	env := Envelope{
		Severity:  SeverityDebug,
		Scope:     "s",
		Message:   Text("m"),
		Timestamp: testInstant,
	}
	line, fallback := serializeEnvelope(env)
	if fallback {
		t.Fatal("unexpected fallback")
	}
	if bytes.Contains(line, []byte(`"fields"`)) {
		t.Fatalf("line contains fields object for empty context: %s", line)
	}
}

func TestSerializeEnvelopeSingleLine(t *testing.T) {
	t.Parallel()

	env := Envelope{
		Severity:  SeverityInfo,
		Scope:     "s",
		Message:   Text("first\nsecond"),
		Timestamp: testInstant,
		Fields:    []Field{F("note", "a\nb")},
	}
	line, _ := serializeEnvelope(env)
	if !bytes.HasSuffix(line, []byte("\n")) {
		t.Fatal("line is not newline terminated")
	}
	if n := bytes.Count(line, []byte("\n")); n != 1 {
		t.Fatalf("line contains %d newlines, want 1", n)
	}
}

func TestSerializeEnvelopeNoHTMLEscaping(t *testing.T) {
	t.Parallel()

	env := Envelope{
		Severity:  SeverityInfo,
		Scope:     "s",
		Message:   Text("a < b && c > d"),
		Timestamp: testInstant,
	}
	line, _ := serializeEnvelope(env)
	if !bytes.Contains(line, []byte(`"a < b && c > d"`)) {
		t.Fatalf("message was HTML-escaped: %s", line)
	}
}

func TestSerializeEnvelopeCodedMessage(t *testing.T) {
	t.Parallel()

	env := Envelope{
		Severity:  SeverityWarning,
		Scope:     "s",
		Message:   Code(4021),
		Timestamp: testInstant,
	}
	line, _ := serializeEnvelope(env)
	if !bytes.Contains(line, []byte(`"message":4021`)) {
		t.Fatalf("coded message not rendered as JSON number: %s", line)
	}
}

func TestSerializeEnvelopeFallback(t *testing.T) {
	t.Parallel()

	env := Envelope{
		Severity:  SeverityInfo,
		Scope:     "jobs",
		Message:   Text("job finished"),
		Timestamp: testInstant,
		Fields:    []Field{F("done", make(chan int))},
	}
	line, fallback := serializeEnvelope(env)
	if !fallback {
		t.Fatal("serializeEnvelope did not report the fallback")
	}

	var record map[string]any
	if err := json.Unmarshal(line, &record); err != nil {
		t.Fatalf("fallback line is not valid JSON: %v\n%s", err, line)
	}
	if got, want := record["severity"], "ERROR"; got != want {
		t.Errorf("severity = %v, want %v", got, want)
	}
	if got, want := record["scope"], "logger"; got != want {
		t.Errorf("scope = %v, want %v", got, want)
	}
	msg, _ := record["message"].(string)
	if !strings.HasPrefix(msg, "Failed to format log record: ") {
		t.Errorf("message = %q, want the failure prefix", msg)
	}
	if !strings.Contains(msg, "job finished") {
		t.Errorf("message %q does not name the original record", msg)
	}
	if _, ok := record["fields"]; ok {
		t.Error("fallback record carries a fields object")
	}
}

func TestSerializeEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	env := Envelope{
		Severity:  SeverityError,
		Scope:     "db",
		Message:   Text("query failed"),
		Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 500000000, time.UTC),
		Fields: []Field{
			F("table", "users"),
			F("rows", 0),
			F("durable", false),
		},
	}
	line, fallback := serializeEnvelope(env)
	if fallback {
		t.Fatal("unexpected fallback")
	}

	var record map[string]any
	if err := json.Unmarshal(line, &record); err != nil {
		t.Fatalf("line is not valid JSON: %v\n%s", err, line)
	}
	if got, want := record["severity"], "ERROR"; got != want {
		t.Errorf("severity = %v, want %v", got, want)
	}
	if got, want := record["timestamp"], "2024-06-01T12:00:00.500000Z"; got != want {
		t.Errorf("timestamp = %v, want %v", got, want)
	}
	fields, ok := record["fields"].(map[string]any)
	if !ok {
		t.Fatalf("fields missing or wrong type: %v", record["fields"])
	}
	if got, want := fields["table"], "users"; got != want {
		t.Errorf("fields.table = %v, want %v", got, want)
	}
	if got, want := fields["rows"], float64(0); got != want {
		t.Errorf("fields.rows = %v, want %v", got, want)
	}
	if got, want := fields["durable"], false; got != want {
		t.Errorf("fields.durable = %v, want %v", got, want)
	}
}

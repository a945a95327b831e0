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
	"sync"
	"time"
)

// timestampLayout renders true-UTC instants as ISO-8601 with microsecond
// precision and a trailing "Z", e.g. "2024-01-01T00:00:00.000000Z".
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// fallbackScope is the scope stamped on substitute envelopes emitted when a
// record cannot be serialized.
const fallbackScope = "logger"

var serializeBufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// serializeEnvelope renders e as a single newline-terminated JSON line with
// the fixed key order severity, scope, message, timestamp, fields. The
// fields object is omitted entirely when empty.
//
// Serialization never fails from the caller's perspective: when any context
// value cannot be encoded, the returned line is instead a well-formed
// substitute envelope whose message names the original record, and the
// second result reports that the fallback was used.
func serializeEnvelope(e Envelope) (line []byte, fallback bool) {
	buf := serializeBufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		serializeBufferPool.Put(buf)
	}()

	if err := appendEnvelope(buf, e); err != nil {
		buf.Reset()
		// The substitute carries only string values, so this encoding
		// cannot itself fail.
		_ = appendEnvelope(buf, fallbackEnvelope(e, time.Now()))
		fallback = true
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, fallback
}

// fallbackEnvelope builds the fixed substitute record emitted in place of
// an unserializable one.
func fallbackEnvelope(original Envelope, now time.Time) Envelope {
	return Envelope{
		Severity:  SeverityError,
		Scope:     fallbackScope,
		Message:   Text("Failed to format log record: " + original.Message.String()),
		Timestamp: now.UTC(),
	}
}

// appendEnvelope writes the envelope's JSON representation, including the
// trailing newline, into buf. On error the buffer contents are undefined
// and the caller is expected to discard them.
func appendEnvelope(buf *bytes.Buffer, e Envelope) error {
	buf.WriteString(`{"severity":`)
	if err := encodeValue(buf, e.Severity.String()); err != nil {
		return err
	}
	buf.WriteString(`,"scope":`)
	if err := encodeValue(buf, e.Scope); err != nil {
		return err
	}
	buf.WriteString(`,"message":`)
	if err := encodeValue(buf, e.Message); err != nil {
		return err
	}
	buf.WriteString(`,"timestamp":`)
	if err := encodeValue(buf, e.Timestamp.Format(timestampLayout)); err != nil {
		return err
	}
	if len(e.Fields) > 0 {
		buf.WriteString(`,"fields":{`)
		for i, f := range e.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteString("}\n")
	return nil
}

// encodeValue writes one JSON value into buf without HTML escaping and
// without the encoder's trailing newline.
func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline after every value; drop it so values can be
	// joined inline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// marshalNoHTML encodes v as JSON with HTML escaping disabled and no
// trailing newline.
func marshalNoHTML(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

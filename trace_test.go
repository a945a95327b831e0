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
	"testing"

	"go.opentelemetry.io/otel/trace"
)

const (
	testTraceID = "0af7651916cd43dd8448eb211c80319c"
	testSpanID  = "b7ad6b7169203331"
)

func spanContext(t *testing.T) context.Context {
	t.Helper()
	tid, err := trace.TraceIDFromHex(testTraceID)
	if err != nil {
		t.Fatalf("parsing trace ID: %v", err)
	}
	sid, err := trace.SpanIDFromHex(testSpanID)
	if err != nil {
		t.Fatalf("parsing span ID: %v", err)
	}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestTraceFields(t *testing.T) {
	t.Parallel()

	fields := traceFields(spanContext(t))
	if len(fields) != 3 {
		t.Fatalf("got %d trace fields, want 3", len(fields))
	}
	if fields[0].Key != TraceIDKey || fields[0].Value != testTraceID {
		t.Errorf("trace_id field = %+v", fields[0])
	}
	if fields[1].Key != SpanIDKey || fields[1].Value != testSpanID {
		t.Errorf("span_id field = %+v", fields[1])
	}
	if fields[2].Key != TraceSampledKey || fields[2].Value != true {
		t.Errorf("trace_sampled field = %+v", fields[2])
	}
}

func TestTraceFieldsNoSpan(t *testing.T) {
	t.Parallel()

	if fields := traceFields(context.Background()); fields != nil {
		t.Fatalf("traceFields = %+v, want nil without a span", fields)
	}
}

func TestInfoContextCorrelation(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(t)
	if err := l.InfoContext(spanContext(t), Text("handled")); err != nil {
		t.Fatalf("InfoContext returned error: %v", err)
	}

	fields := fieldsOf(t, decodeLogLines(t, buf.Bytes())[0])
	if got, want := fields[TraceIDKey], testTraceID; got != want {
		t.Errorf("trace_id = %v, want %v", got, want)
	}
	if got, want := fields[SpanIDKey], testSpanID; got != want {
		t.Errorf("span_id = %v, want %v", got, want)
	}
	if got, want := fields[TraceSampledKey], true; got != want {
		t.Errorf("trace_sampled = %v, want %v", got, want)
	}
}

func TestInfoContextWithoutSpan(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(t)
	if err := l.InfoContext(context.Background(), Text("plain")); err != nil {
		t.Fatalf("InfoContext returned error: %v", err)
	}
	rec := decodeLogLines(t, buf.Bytes())[0]
	if _, ok := rec["fields"]; ok {
		t.Fatalf("record carries fields without a span: %v", rec)
	}
}

func TestCallerTraceFieldWins(t *testing.T) {
	t.Parallel()

	l, buf := newBufferLogger(t)
	if err := l.InfoContext(spanContext(t), Text("m"), F(TraceIDKey, "caller-chosen")); err != nil {
		t.Fatalf("InfoContext returned error: %v", err)
	}
	fields := fieldsOf(t, decodeLogLines(t, buf.Bytes())[0])
	if got, want := fields[TraceIDKey], "caller-chosen"; got != want {
		t.Fatalf("trace_id = %v, want caller value %v", got, want)
	}
}

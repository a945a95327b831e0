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

	"go.opentelemetry.io/otel/trace"
)

// Field keys used for trace correlation on records logged through the
// *Context methods.
const (
	// TraceIDKey carries the 32-char lowercase hex trace ID.
	TraceIDKey = "trace_id"
	// SpanIDKey carries the 16-char lowercase hex span ID.
	SpanIDKey = "span_id"
	// TraceSampledKey carries the span's sampling decision.
	TraceSampledKey = "trace_sampled"
)

// traceFields extracts OpenTelemetry span details from ctx. It returns nil
// when no valid span context is present. The function does not create
// spans or mutate ctx; upstream middleware is expected to have populated
// the span context.
func traceFields(ctx context.Context) []Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []Field{
		{Key: TraceIDKey, Value: sc.TraceID().String()},
		{Key: SpanIDKey, Value: sc.SpanID().String()},
		{Key: TraceSampledKey, Value: sc.IsSampled()},
	}
}

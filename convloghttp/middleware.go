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

// Package convloghttp adapts the convlog facade to net/http servers: a
// middleware that emits one access record per request and propagates
// incoming trace context so the facade's correlation fields line up with
// distributed traces.
package convloghttp

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/convlog/convlog"
)

// Middleware returns an http.Handler middleware that logs one record per
// request through logger after the wrapped handler finishes. The record
// carries method, path, status, response size, duration, and remote
// address; responses with 5xx status log at ERROR, 4xx at WARNING, and
// everything else at INFO.
//
// Incoming W3C trace context headers are extracted through the globally
// registered OpenTelemetry propagator before the wrapped handler runs, so
// both the access record and any records the handler logs with the
// *Context methods share the request's trace correlation fields.
func Middleware(logger *convlog.Logger, opts ...Option) func(http.Handler) http.Handler {
	cfg := applyOptions(opts)

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			r = r.WithContext(ctx)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if cfg.skip != nil && cfg.skip(r) {
				return
			}

			status := rec.status
			if status == 0 {
				status = http.StatusOK
			}
			fields := []convlog.Field{
				convlog.F("method", r.Method),
				convlog.F("path", r.URL.Path),
				convlog.F("status", status),
				convlog.F("bytes", rec.bytes),
				convlog.F("duration_ms", time.Since(start).Milliseconds()),
				convlog.F("remote_addr", remoteHost(r.RemoteAddr)),
			}
			if ua := r.UserAgent(); ua != "" {
				fields = append(fields, convlog.F("user_agent", ua))
			}

			if err := logger.Log(ctx, severityForStatus(status), convlog.Text(cfg.message), fields...); err != nil {
				// Only a reserved-key conflict reaches here, and the field
				// set above contains none; surface it anyway.
				fmt.Fprintf(os.Stderr, "[convlog] access record: %v\n", err)
			}
		})
	}
}

// severityForStatus maps an HTTP response status onto a record severity.
func severityForStatus(status int) convlog.Severity {
	switch {
	case status >= http.StatusInternalServerError:
		return convlog.SeverityError
	case status >= http.StatusBadRequest:
		return convlog.SeverityWarning
	default:
		return convlog.SeverityInfo
	}
}

// remoteHost strips the port from a RemoteAddr when one is present.
func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// statusRecorder captures the status code and byte count a handler writes
// so the access record can report them.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

// WriteHeader records the status before delegating.
func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

// Write counts response bytes, defaulting the status to 200 the way the
// underlying ResponseWriter does.
func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)
	return n, err
}

// Flush passes through to the underlying writer when it supports
// streaming.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack passes through so websocket upgrades keep working behind the
// middleware.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := r.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

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

// Package convlog is a structured logging facade that formats leveled log
// calls into single-line JSON records with a fixed envelope and writes them
// to one or more sinks: console, plain files, size-rotated files, and
// time-rotated files.
//
// Every record carries the envelope keys severity, scope, message, and
// timestamp, in that order, followed by an optional fields object holding
// the caller's context in insertion order:
//
//	{"severity":"INFO","scope":"web-app","message":"user cached","timestamp":"2024-05-14T14:16:15.000000Z","fields":{"user_id":123}}
//
// Records at ERROR and above additionally gain the call site's module,
// function, and line inside fields. Context keys that collide with the
// envelope's reserved names fail the call with *ConflictKeyError rather
// than silently overwriting anything.
//
// # Usage
//
//	logger, err := convlog.Init(convlog.WithScope("web-app"))
//	if err != nil {
//	    // only sink registration can fail later; Init itself is safe
//	}
//	defer convlog.Shutdown()
//
//	logger.Info(convlog.Text("user login"), convlog.F("user_id", 123), convlog.F("ip", "192.168.1.1"))
//	logger.Error(convlog.Text("connect failed"), convlog.F("endpoint", "api.example.com"))
//
// File sinks are registered per destination path and can be added and
// removed independently at runtime:
//
//	_ = logger.AddFileHandler("logs/app.log")
//	_ = logger.AddRotatingFileHandler("logs/app-sized.log", convlog.WithMaxBytes(10<<20))
//	_ = logger.AddTimedRotatingFileHandler("logs/app-daily.log", convlog.WithUTC())
//	logger.RemoveFileHandler("logs/app.log")
//
// The process-wide instance established by Init (or lazily by Default) is
// deliberately shared global state: all call sites funnel through the same
// sink set. Dispatch is synchronous and unbuffered; a record is written to
// every qualifying sink before the logging call returns.
//
// The *Context method variants additionally merge OpenTelemetry trace
// correlation fields from the context when a valid span context is
// present. The convloghttp and convloggrpc subpackages adapt the facade to
// HTTP servers and gRPC interceptor chains.
package convlog

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

package convloghttp

import "net/http"

// Option configures the middleware.
type Option func(*config)

// config holds middleware settings.
type config struct {
	message string
	skip    func(*http.Request) bool
}

// applyOptions folds opts over the defaults.
func applyOptions(opts []Option) *config {
	cfg := &config{message: "http request"}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithMessage sets the message text of emitted access records. The default
// is "http request".
func WithMessage(msg string) Option {
	return func(c *config) {
		c.message = msg
	}
}

// WithSkip suppresses access records for requests fn reports true for,
// typically health checks:
//
//	convloghttp.WithSkip(func(r *http.Request) bool { return r.URL.Path == "/healthz" })
func WithSkip(fn func(*http.Request) bool) Option {
	return func(c *config) {
		c.skip = fn
	}
}

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

package convloggrpc

// Option configures the interceptors.
type Option func(*config)

// config holds interceptor settings.
type config struct {
	message      string
	includePeer  bool
	includeSizes bool
}

// applyOptions folds opts over the defaults.
func applyOptions(opts []Option) *config {
	cfg := &config{
		message:     "grpc request",
		includePeer: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithMessage sets the message text of emitted RPC records. The default is
// "grpc request".
func WithMessage(msg string) Option {
	return func(c *config) {
		c.message = msg
	}
}

// WithPeer controls whether records carry the peer address. Enabled by
// default.
func WithPeer(enabled bool) Option {
	return func(c *config) {
		c.includePeer = enabled
	}
}

// WithPayloadSizes adds serialized proto request and response sizes to
// unary records. Disabled by default because it forces an extra
// serialization pass.
func WithPayloadSizes() Option {
	return func(c *config) {
		c.includeSizes = true
	}
}

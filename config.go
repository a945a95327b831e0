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
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names consulted for logger defaults. Programmatic
// options always take precedence over these.
const (
	// EnvLevel sets the minimum severity, e.g. "DEBUG" or "warning".
	EnvLevel = "CONVLOG_LEVEL"
	// EnvScope sets the default scope stamped on records.
	EnvScope = "CONVLOG_SCOPE"
	// EnvConsole enables or disables the console sink ("true"/"false").
	EnvConsole = "CONVLOG_CONSOLE"
)

// Defaults used when neither environment nor options say otherwise.
const (
	defaultLevel = SeverityDebug
	defaultScope = "application"
)

// config holds the resolved logger settings after the three configuration
// tiers (defaults, environment, programmatic options) have been applied.
type config struct {
	level   Severity
	scope   string
	console bool
}

// loadConfig resolves the defaults-plus-environment tiers. Invalid values
// produce a stderr diagnostic and fall back to the default rather than
// failing initialization.
func loadConfig() config {
	cfg := config{
		level:   defaultLevel,
		scope:   defaultScope,
		console: true,
	}

	if v := strings.TrimSpace(os.Getenv(EnvLevel)); v != "" {
		level, err := ParseSeverity(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[convlog] invalid %s %q, using %s\n", EnvLevel, v, cfg.level)
		} else {
			cfg.level = level
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvScope)); v != "" {
		cfg.scope = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvConsole)); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "[convlog] invalid %s %q, console stays enabled\n", EnvConsole, v)
		} else {
			cfg.console = enabled
		}
	}

	return cfg
}

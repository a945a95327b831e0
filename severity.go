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
	"strings"
)

// Severity represents the importance of a log record. The integer values
// are spaced so intermediate custom levels remain ordered correctly when
// compared against sink thresholds.
type Severity int

// Severity constants, ordered from least to most severe.
const (
	// SeverityDebug marks verbose diagnostic records.
	SeverityDebug Severity = -4

	// SeverityInfo marks routine operational records and is the default
	// minimum level.
	SeverityInfo Severity = 0

	// SeverityWarning marks records describing unexpected but recoverable
	// conditions.
	SeverityWarning Severity = 4

	// SeverityError marks failures. Records at this level and above are
	// enriched with call-site metadata.
	SeverityError Severity = 8

	// SeverityCritical marks failures severe enough to threaten the
	// process.
	SeverityCritical Severity = 12
)

// String returns the canonical severity name used in the "severity" field
// of emitted records (e.g. "DEBUG", "WARNING", "CRITICAL").
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	case SeverityCritical:
		return "CRITICAL"
	}

	// Intermediate values render as the nearest lower named level plus an
	// offset, mirroring how extended slog-style levels print.
	var base Severity
	var name string
	switch {
	case s < SeverityDebug:
		return fmt.Sprintf("DEBUG%d", int(s-SeverityDebug))
	case s < SeverityInfo:
		base, name = SeverityDebug, "DEBUG"
	case s < SeverityWarning:
		base, name = SeverityInfo, "INFO"
	case s < SeverityError:
		base, name = SeverityWarning, "WARNING"
	case s < SeverityCritical:
		base, name = SeverityError, "ERROR"
	default:
		base, name = SeverityCritical, "CRITICAL"
	}
	return fmt.Sprintf("%s+%d", name, int(s-base))
}

// ParseSeverity converts a case-insensitive severity name into a Severity.
// It accepts the canonical names plus the common aliases "WARN" and
// "FATAL".
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return SeverityDebug, nil
	case "INFO":
		return SeverityInfo, nil
	case "WARNING", "WARN":
		return SeverityWarning, nil
	case "ERROR":
		return SeverityError, nil
	case "CRITICAL", "FATAL":
		return SeverityCritical, nil
	}
	return SeverityInfo, fmt.Errorf("convlog: unknown severity %q", name)
}

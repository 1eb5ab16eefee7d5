// Package doctor runs diagnostic checks over resource locations and the
// documents found in them.
package doctor

import (
	"strings"

	"github.com/thoreinstein/resindex/internal/errors"
)

// Severity ranks a check outcome. Larger values are worse.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"pass", "info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Severity(i), nil
		}
	}
	return SeverityPass, errors.Newf("unknown severity %q", name)
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string         `json:"name" yaml:"name" toml:"name"`
	Category string         `json:"category" yaml:"category" toml:"category"`
	Status   Severity       `json:"status" yaml:"status" toml:"status"`
	Message  string         `json:"message" yaml:"message" toml:"message"`
	Details  map[string]any `json:"details,omitempty" yaml:"details,omitempty" toml:"details,omitempty"`

	// FixHint is a command or action that resolves the problem.
	FixHint string `json:"fix_hint,omitempty" yaml:"fix_hint,omitempty" toml:"fix_hint,omitempty"`
}

// Summary counts results per severity.
type Summary struct {
	Passed   int `json:"passed" yaml:"passed" toml:"passed"`
	Info     int `json:"info" yaml:"info" toml:"info"`
	Warnings int `json:"warnings" yaml:"warnings" toml:"warnings"`
	Errors   int `json:"errors" yaml:"errors" toml:"errors"`
}

func (s *Summary) add(sev Severity) {
	switch sev {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
}

// Total is the number of counted results.
func (s Summary) Total() int {
	return s.Passed + s.Info + s.Warnings + s.Errors
}

package domain

import (
	"fmt"
	"strings"
)

// Severity is the health state reported to the monitoring system.
// Values are ordered Ok < Warning < Critical < Unknown for worst-case merging.
type Severity int

const (
	SeverityOk Severity = iota
	SeverityWarning
	SeverityCritical
	// SeverityUnknown means the state could not be determined.
	SeverityUnknown
)

var severityNames = [...]string{"Ok", "Warning", "Critical", "Unknown"}

func (s Severity) String() string {
	if s < SeverityOk || s > SeverityUnknown {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ExitCode maps the severity onto the Nagios plugin exit status.
func (s Severity) ExitCode() int {
	switch s {
	case SeverityOk:
		return 0
	case SeverityWarning:
		return 1
	case SeverityCritical:
		return 2
	default:
		return 3
	}
}

// ParseSeverity accepts the printed names case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	for i, name := range severityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Severity(i), nil
		}
	}
	return SeverityUnknown, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// WorstOf returns the more severe of a and b.
func WorstOf(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

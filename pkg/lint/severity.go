package lint

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSeverity is returned when a severity string cannot be parsed.
var ErrInvalidSeverity = errors.New("invalid severity")

// Severity is the level at which a rule's findings are reported.
type Severity int

// Severities, ordered from least to most severe.
const (
	SeverityOff Severity = iota
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// ParseSeverity accepts ESLint and oxlint spellings: off/allow/0,
// warn/warning/1 and error/deny/2.
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "off", "allow", "0":
		return SeverityOff, nil
	case "warn", "warning", "1":
		return SeverityWarn, nil
	case "error", "deny", "2":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("%w: %q", ErrInvalidSeverity, raw)
	}
}

// Category groups rules by intent.
type Category string

// Rule categories.
const (
	CategoryCorrectness Category = "correctness"
	CategorySuspicious  Category = "suspicious"
	CategoryPedantic    Category = "pedantic"
	CategoryStyle       Category = "style"
	CategoryRestriction Category = "restriction"
	CategoryNursery     Category = "nursery"
)

package severity

import (
	"fmt"
	"strings"
)

// Level is the built-in severity a check assigns to its findings.
type Level string

const (
	LevelError Level = "ERROR"
	LevelWarn  Level = "WARN"
	LevelInfo  Level = "INFO"
)

// Effective is the severity applied to a finding after overrides.
// Disabled findings are never reported and never block startup.
type Effective string

const (
	EffectiveError    Effective = "ERROR"
	EffectiveWarn     Effective = "WARN"
	EffectiveInfo     Effective = "INFO"
	EffectiveDisabled Effective = "DISABLED"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelError, LevelWarn, LevelInfo:
		return true
	default:
		return false
	}
}

// Effective returns the effective severity equivalent to l.
func (l Level) Effective() Effective {
	return Effective(l)
}

// Blocking reports whether a finding at this severity aborts startup.
func (e Effective) Blocking() bool {
	return e == EffectiveError
}

// ParseEffective parses a severity override value. Matching is
// case-insensitive and "OFF" is accepted as an alias for DISABLED.
func ParseEffective(raw string) (Effective, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ERROR":
		return EffectiveError, nil
	case "WARN", "WARNING":
		return EffectiveWarn, nil
	case "INFO":
		return EffectiveInfo, nil
	case "DISABLED", "OFF":
		return EffectiveDisabled, nil
	default:
		return "", fmt.Errorf("unknown severity %q (must be one of: ERROR, WARN, INFO, DISABLED)", raw)
	}
}

// ParseLevel parses a reportable severity. DISABLED is rejected since it is
// never attached to a reported finding.
func ParseLevel(raw string) (Level, error) {
	eff, err := ParseEffective(raw)
	if err != nil {
		return "", err
	}
	if eff == EffectiveDisabled {
		return "", fmt.Errorf("severity %q is not reportable (must be one of: ERROR, WARN, INFO)", raw)
	}
	return Level(eff), nil
}

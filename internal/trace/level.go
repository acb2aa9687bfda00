package trace

import (
	"fmt"
	"strings"
)

// Level selects the finest scope that is traced. Each level includes the
// scopes of the levels before it.
type Level uint8

const (
	LevelOff Level = iota
	// LevelPhase traces the run and its phases: load, collect, scopes,
	// bodies, assemble, write.
	LevelPhase
	// LevelModule adds one span per module scope build and body pass.
	LevelModule
	// LevelFunction adds one span per lowered function and initializer.
	LevelFunction
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelPhase:
		return "phase"
	case LevelModule:
		return "module"
	case LevelFunction:
		return "function"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLevel reads a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "phase":
		return LevelPhase, nil
	case "module":
		return LevelModule, nil
	case "function":
		return LevelFunction, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level %q (expected off|phase|module|function)", s)
	}
}

// Allows reports whether spans of scope are traced at l.
func (l Level) Allows(scope Scope) bool {
	switch scope {
	case ScopeRun, ScopePhase:
		return l >= LevelPhase
	case ScopeModule:
		return l >= LevelModule
	case ScopeFunction:
		return l >= LevelFunction
	}
	return false
}

package ds

import (
	"fmt"
	"strings"
)

func (m Mode) String() string {
	switch m {
	case ModeAutonomous:
		return "autonomous"
	case ModeTeleop:
		return "teleop"
	case ModeTest:
		return "test"
	default:
		return "unset"
	}
}

// ParseMode converts the wire name of a mode back into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(strings.TrimSpace(s), m.String()) {
			return m, nil
		}
	}
	return ModeUnset, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// MarshalText renders the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (e Enable) String() string {
	switch e {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unset"
	}
}

// MarshalText renders the enable selection by name.
func (e Enable) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

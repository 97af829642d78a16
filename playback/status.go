// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"strings"
)

// Status is the state of a playback instance.
type Status int

const (
	// Stopped is reported for IDs that are not live. Stopping is terminal:
	// a stopped instance is removed and can never play again.
	Stopped Status = iota
	Playing
	Paused
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Interpolation selects how source samples are read between integer cursor
// positions when the track rate differs from the output rate.
type Interpolation int

const (
	Linear Interpolation = iota
	Nearest
	Cubic
)

func (i Interpolation) String() string {
	switch i {
	case Nearest:
		return "nearest"
	case Cubic:
		return "cubic"
	default:
		return "linear"
	}
}

// ParseInterpolation maps a configuration name to an Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return Linear, nil
	case "nearest":
		return Nearest, nil
	case "cubic":
		return Cubic, nil
	default:
		return Linear, fmt.Errorf("%w: %q", ErrUnknownInterpolation, name)
	}
}

// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"fmt"
	"strings"
)

// Format is a device-native sample representation.
type Format int

const (
	// FormatUnknown is the zero value and is never negotiated.
	FormatUnknown Format = iota
	// S16 is signed 16-bit little-endian PCM.
	S16
	// U8 is unsigned 8-bit offset-binary PCM.
	U8
	// F32 is 32-bit little-endian IEEE float.
	F32
)

// Size returns the number of bytes per sample.
func (f Format) Size() int {
	switch f {
	case S16:
		return 2
	case U8:
		return 1
	case F32:
		return 4
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case S16:
		return "s16"
	case U8:
		return "u8"
	case F32:
		return "f32"
	default:
		return "unknown"
	}
}

// ParseFormat maps a configuration name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "s16", "int16", "i16":
		return S16, nil
	case "u8", "uint8":
		return U8, nil
	case "f32", "float32", "float":
		return F32, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// SPDX-License-Identifier: EPL-2.0

package sample

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audmix/utils"
)

// Sample is the set of device-native sample representations the mixer
// can write.
type Sample interface {
	int16 | uint8 | float32
}

// Convert applies gain to a mixed sample and converts it to S.
// Integer representations are clipped to full scale.
func Convert[S Sample](mixed, gain float32) S {
	v := mixed * gain

	var out S
	switch p := any(&out).(type) {
	case *int16:
		*p = utils.Float32ToInt16(v)
	case *uint8:
		*p = utils.Float32ToUint8(v)
	case *float32:
		*p = utils.Clamp(v)
	}

	return out
}

// Silence returns the zero-amplitude value of S.
func Silence[S Sample]() S {
	var out S
	if p, ok := any(&out).(*uint8); ok {
		*p = 128
	}

	return out
}

// FormatOf reports the Format matching S.
func FormatOf[S Sample]() Format {
	var zero S
	switch any(zero).(type) {
	case int16:
		return S16
	case uint8:
		return U8
	default:
		return F32
	}
}

// Put encodes s at the start of dst in little-endian order. dst must hold
// at least FormatOf[S]().Size() bytes.
func Put[S Sample](dst []byte, s S) {
	switch v := any(s).(type) {
	case int16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case uint8:
		dst[0] = v
	case float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
	}
}

// FillSilence writes silence in format f over the whole of dst.
func FillSilence(dst []byte, f Format) {
	switch f {
	case U8:
		for i := range dst {
			dst[i] = 128
		}
	default:
		clear(dst)
	}
}

// AppendFloat32s decodes little-endian samples in format f from src and
// appends them to dst as float32 in [-1, 1]. Trailing bytes that do not
// form a whole sample are ignored.
func AppendFloat32s(dst []float32, src []byte, f Format) []float32 {
	size := f.Size()
	if size == 0 {
		return dst
	}

	for off := 0; off+size <= len(src); off += size {
		switch f {
		case S16:
			dst = append(dst, float32(int16(binary.LittleEndian.Uint16(src[off:])))/32768)
		case U8:
			dst = append(dst, (float32(src[off])-128)/128)
		case F32:
			dst = append(dst, math.Float32frombits(binary.LittleEndian.Uint32(src[off:])))
		}
	}

	return dst
}

// SPDX-License-Identifier: EPL-2.0

package utils

// Clamp limits x to the normalized range [-1, 1].
func Clamp(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}

	return x
}

// Float32ToInt16 converts a normalized sample to signed 16-bit PCM.
// Values outside [-1, 1] are clipped.
func Float32ToInt16(x float32) int16 {
	// 32767 on both sides keeps -1 and 1 symmetric
	return int16(Clamp(x) * 32767.0)
}

// Float32ToUint8 converts a normalized sample to offset-binary 8-bit PCM,
// where 128 is silence.
func Float32ToUint8(x float32) uint8 {
	return uint8(128 + int(Clamp(x)*127.0))
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for decoders reading PCM16.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

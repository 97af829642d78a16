// SPDX-License-Identifier: EPL-2.0

package device

import "errors"

var (
	// ErrDeviceUnavailable reports that the device behind a stream went
	// away. It is the only stream error the engine recovers from.
	ErrDeviceUnavailable = errors.New("output device unavailable")

	// ErrNoDevice is returned when a requested or default device does not
	// exist.
	ErrNoDevice = errors.New("no output device")

	// ErrUnsupportedFormat is returned for configurations a backend cannot
	// open.
	ErrUnsupportedFormat = errors.New("unsupported stream format")
)

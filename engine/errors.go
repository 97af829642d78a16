// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	// ErrDisconnected is returned by Runner.Run when the command sender
	// shut down without sending Close.
	ErrDisconnected = errors.New("command channel disconnected")

	// ErrStreamFailed wraps a backend error the engine cannot recover from.
	ErrStreamFailed = errors.New("output stream failed")

	// ErrNoReplacementDevice is returned when the device was lost and no
	// other output device is available.
	ErrNoReplacementDevice = errors.New("no replacement output device")

	// ErrNotStarted is returned by Run before Start succeeded.
	ErrNotStarted = errors.New("runner not started")
)

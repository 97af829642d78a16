// SPDX-License-Identifier: EPL-2.0

package command

import "errors"

var (
	// ErrClosed is returned by Send after Shutdown.
	ErrClosed = errors.New("command queue closed")

	// ErrStopped is returned by Send once the audio side stopped receiving.
	ErrStopped = errors.New("command receiver stopped")
)

// SPDX-License-Identifier: EPL-2.0

package audmix

import "errors"

var (
	// ErrNoHost is returned by New when Options.Host is nil.
	ErrNoHost = errors.New("no output host")

	// ErrNotOffline is returned by Render on a mixer bound to a real
	// output host.
	ErrNotOffline = errors.New("mixer is not offline")

	// ErrNotPlaying is returned by Render while the mixer is paused, its
	// stream is closed, or after a Close command.
	ErrNotPlaying = errors.New("mixer is not playing")
)

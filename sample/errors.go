// SPDX-License-Identifier: EPL-2.0

package sample

import "errors"

var (
	// ErrUnknownFormat is returned when a format name cannot be parsed.
	ErrUnknownFormat = errors.New("unknown sample format")
)

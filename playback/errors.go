// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	ErrUnknownInterpolation = errors.New("unknown interpolation")
)

// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

// ErrBitDepth is returned for sample widths other than 8, 16, 24 and 32.
var ErrBitDepth = errors.New("unsupported bit depth")

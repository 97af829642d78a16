// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff. Integer
// PCM at 8, 16, 24 and 32 bits is supported; AIFF-C compression is not.
package aiff

// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III streams with
// github.com/hajimehoshi/go-mp3. Output is always stereo at the stream's
// sample rate; mono files are duplicated onto both channels.
package mp3

// SPDX-License-Identifier: EPL-2.0

// Package track holds decoded mono tracks and the slot-addressed storage
// the mixer plays them from.
//
// A Track is handed to Storage by value; replacing a slot swaps in a new
// *Track so playback instances still holding the previous pointer keep
// reading consistent data until they are retired.
package track

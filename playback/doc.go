// SPDX-License-Identifier: EPL-2.0

// Package playback implements the set of playing track instances and the
// per-frame mixing over them.
//
// # Instances
//
// Every call to Registry.Add creates an instance bound to a storage slot,
// a set of output channels, a repeat counter and a gain. Instances move
// between Playing and Paused; stopping or exhausting an instance removes
// it for good.
//
// # Repeats
//
// A repeat counter of 0 loops forever. A positive counter is decremented
// each time the cursor passes the end of the track and the instance is
// retired when it reaches 0, so a counter of N plays the track N times.
//
// # Resampling
//
// Cursors are kept in source-sample units and advance by
// trackRate/outputRate per output frame. Changing the output rate only
// changes that step, so no committed audio is skipped or repeated.
package playback

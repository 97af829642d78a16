// SPDX-License-Identifier: EPL-2.0

// Package command carries control messages from application goroutines to
// the audio callback.
//
// New returns a Sender, safe for any number of producers, and a Receiver
// for the single consumer. The receiver never blocks:
//
//	tx, rx := command.New(256)
//	id, _ := tx.PlayMonoOnChannels(0, []int{0, 1}, 1, 0.8)
//	cmd, res := rx.TryReceive()
//
// Instance IDs are minted by the Sender when a play command is queued, so
// the caller can pause, stop or re-volume the instance right away. Commands
// addressed to IDs that never started or already finished are ignored.
//
// Shutdown closes the producing side; the receiver keeps delivering queued
// commands and then reports Disconnected.
package command

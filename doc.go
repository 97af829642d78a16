// SPDX-License-Identifier: EPL-2.0

// Package audmix is a real-time audio mixer. Mono tracks are loaded into
// numbered storage slots, played any number of times on chosen output
// channels, and mixed into whatever output device is current. Control
// code talks to the mixer only through a command queue, so nothing on the
// audio thread ever blocks on a lock held by the caller.
//
// # Quick Start
//
//	m, err := audmix.New(audmix.Options{Host: host})
//	if err != nil {
//		return err
//	}
//	if err := m.Start(); err != nil {
//		return err
//	}
//	go m.Run(ctx)
//	m.Play()
//
//	m.AddMono(0, tr)
//	id, _ := m.PlayMonoOnChannels(0, []int{0, 1}, 1, 0.8)
//
// Every command method of command.Sender is available on Mixer. Commands
// take effect at the start of the next audio callback, in the order sent.
//
// # Packages
//
//   - track: immutable mono tracks and slot storage
//   - playback: playback instances, IDs and the slot to instance table
//   - command: the command vocabulary and its queue
//   - engine: command application, frame mixing and the device runner
//   - device: the output backend interface and the shared stream handle,
//     with miniaudio, oto and null backends in subpackages
//   - audio, formats and loader: decoding files into tracks
//
// # Offline Rendering
//
// NewOffline binds a mixer to a device without hardware. Render pulls
// mixed output on demand, which suits tests and file export.
package audmix

// SPDX-License-Identifier: EPL-2.0

// Package device defines the output backend contract used by the mixer
// and the mutex-guarded handle to the current stream.
//
// # Backends
//
//   - device/malgo: miniaudio through github.com/gen2brain/malgo
//   - device/oto: github.com/ebitengine/oto/v3
//   - device/null: in-memory devices for tests and offline rendering
//
// A backend calls the stream's DataFunc from its audio thread and reports
// asynchronous failures through ErrorFunc. Losing the device is reported
// as ErrDeviceUnavailable; anything else is treated as fatal by the
// engine.
package device

// SPDX-License-Identifier: EPL-2.0

// Package sample converts the mixer's normalized float accumulator into the
// sample representations output devices accept.
//
// # Formats
//
//   - S16: signed 16-bit PCM
//   - U8: unsigned 8-bit PCM, silence at 128
//   - F32: 32-bit float, clamped to [-1, 1]
//
// Convert, Put and Silence are generic over the Sample constraint so the
// frame writer is written once and instantiated per device format.
package sample

// SPDX-License-Identifier: EPL-2.0

// Command audmix plays and renders mixes of audio files.
package main

func main() {
	Execute()
}

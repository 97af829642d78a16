// SPDX-License-Identifier: EPL-2.0

package device

import "sync"

// Handle guards the current output stream so control code can play and
// pause while the engine swaps streams after device loss. mu covers only
// reads and replacements. ctl orders play state changes with the backend
// calls that apply them, so the last request always wins; the audio
// callback never takes either lock.
type Handle struct {
	ctl sync.Mutex

	mu      sync.Mutex
	stream  Stream
	playing bool
}

// NewHandle returns an empty handle in the paused state.
func NewHandle() *Handle {
	return &Handle{}
}

// Current returns the published stream, or nil.
func (h *Handle) Current() Stream {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stream
}

// ShouldPlay reports the last requested play state.
func (h *Handle) ShouldPlay() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.playing
}

// Swap replaces the stream and returns the previous one without touching
// either stream's state.
func (h *Handle) Swap(s Stream) Stream {
	h.mu.Lock()
	defer h.mu.Unlock()

	old := h.stream
	h.stream = s

	return old
}

// Publish installs s and brings it to the requested play state. It returns
// the previous stream, which the caller owns.
func (h *Handle) Publish(s Stream) (Stream, error) {
	h.ctl.Lock()
	defer h.ctl.Unlock()

	old := h.Swap(s)
	if s == nil {
		return old, nil
	}

	if h.ShouldPlay() {
		return old, s.Play()
	}

	return old, s.Pause()
}

// Play records the play request and forwards it to the current stream.
func (h *Handle) Play() error {
	return h.set(true)
}

// Pause records the pause request and forwards it to the current stream.
func (h *Handle) Pause() error {
	return h.set(false)
}

func (h *Handle) set(playing bool) error {
	h.ctl.Lock()
	defer h.ctl.Unlock()

	h.mu.Lock()
	h.playing = playing
	s := h.stream
	h.mu.Unlock()

	if s == nil {
		return nil
	}
	if playing {
		return s.Play()
	}

	return s.Pause()
}

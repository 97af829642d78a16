// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"slices"

	"github.com/ik5/audmix/track"
	"github.com/ik5/audmix/utils"
)

// instance is one entry of the registry arena.
type instance struct {
	id       ID
	slot     int
	track    *track.Track
	channels []int
	repeats  uint32 // 0 loops forever
	volume   float32
	status   Status
	cursor   float64 // position in source samples
	step     float64 // source samples per output frame
	live     bool
}

// Options configures a Registry.
type Options struct {
	// Capacity is the maximum number of concurrently live instances.
	Capacity int
	// Slots is the number of storage slots the distribution table covers.
	Slots int
	// SampleRate is the output rate in Hz.
	SampleRate uint32
	// Channels is the number of interleaved output channels.
	Channels int
	// Interpolation used when reading between source samples.
	Interpolation Interpolation
}

// reservedChannels is the frame capacity allocated up front, so channel
// changes up to 7.1 reuse the frame.
const reservedChannels = 8

// Registry is the set of live playback instances together with the
// distribution table that fans storage slots out to them. It mixes one
// output frame per NextFrame call.
//
// Registry is not safe for concurrent use; it is owned by the audio
// callback goroutine.
type Registry struct {
	arena  []instance
	free   []int32
	index  map[ID]int32
	dist   *Distribution
	rate   uint32
	chans  int
	interp Interpolation

	frame   []float32
	scratch []ID
}

// NewRegistry returns an empty registry. Zero SampleRate and Channels fall
// back to 48000 Hz stereo.
func NewRegistry(opts Options) *Registry {
	if opts.Capacity < 0 {
		opts.Capacity = 0
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = 48000
	}
	if opts.Channels < 1 {
		opts.Channels = 2
	}

	r := &Registry{
		arena:   make([]instance, opts.Capacity),
		free:    make([]int32, 0, opts.Capacity),
		index:   make(map[ID]int32, opts.Capacity),
		dist:    NewDistribution(opts.Slots),
		rate:    opts.SampleRate,
		chans:   opts.Channels,
		interp:  opts.Interpolation,
		frame:   make([]float32, opts.Channels, max(opts.Channels, reservedChannels)),
		scratch: make([]ID, 0, opts.Capacity),
	}

	// no slot can hold more live IDs than the arena
	r.dist.Reserve(opts.Capacity)

	// pop from the end hands out low indices first
	for i := opts.Capacity - 1; i >= 0; i-- {
		r.free = append(r.free, int32(i))
	}

	return r
}

// Capacity returns the maximum number of live instances.
func (r *Registry) Capacity() int { return len(r.arena) }

// Len returns the number of live instances.
func (r *Registry) Len() int { return len(r.index) }

// SampleRate returns the current output rate.
func (r *Registry) SampleRate() uint32 { return r.rate }

// Channels returns the current output channel count.
func (r *Registry) Channels() int { return r.chans }

// Distribution exposes the slot fan-out table for inspection.
func (r *Registry) Distribution() *Distribution { return r.dist }

// Add creates a Playing instance of t bound to slot, with its cursor at
// the start of the track. It is a no-op returning false when the arena is
// full, t is nil, slot is outside the distribution table, or id is zero or
// already live.
//
// channels is taken over by the registry: duplicates and negative entries
// are dropped in place.
func (r *Registry) Add(id ID, slot int, t *track.Track, channels []int, repeats uint32, volume float32) bool {
	if id == 0 || t == nil || len(r.free) == 0 {
		return false
	}
	if slot < 0 || slot >= r.dist.Slots() {
		return false
	}
	if _, dup := r.index[id]; dup {
		return false
	}

	idx := r.free[len(r.free)-1]
	r.free = r.free[:len(r.free)-1]

	r.arena[idx] = instance{
		id:       id,
		slot:     slot,
		track:    t,
		channels: normalizeChannels(channels),
		repeats:  repeats,
		volume:   volume,
		status:   Playing,
		step:     stepFor(t, r.rate),
		live:     true,
	}
	r.index[id] = idx
	r.dist.Record(slot, id)

	return true
}

// Remove retires the instance. Unknown IDs are ignored.
func (r *Registry) Remove(id ID) {
	if idx, ok := r.index[id]; ok {
		r.retire(idx)
	}
}

// Pause freezes the instance's cursor. Unknown IDs are ignored.
func (r *Registry) Pause(id ID) {
	if in := r.lookup(id); in != nil {
		in.status = Paused
	}
}

// Unpause resumes a paused instance. Unknown IDs are ignored.
func (r *Registry) Unpause(id ID) {
	if in := r.lookup(id); in != nil {
		in.status = Playing
	}
}

// SetVolume replaces the instance gain from the next frame on.
func (r *Registry) SetVolume(id ID, volume float32) {
	if in := r.lookup(id); in != nil {
		in.volume = volume
	}
}

// StopSlot retires every instance spawned from slot.
func (r *Registry) StopSlot(slot int) {
	// Remove mutates the slot's list, iterate a copy
	r.scratch = append(r.scratch[:0], r.dist.IDs(slot)...)
	for _, id := range r.scratch {
		r.Remove(id)
	}
}

// PauseSlot pauses every instance spawned from slot.
func (r *Registry) PauseSlot(slot int) {
	for _, id := range r.dist.IDs(slot) {
		r.Pause(id)
	}
}

// UnpauseSlot resumes every instance spawned from slot.
func (r *Registry) UnpauseSlot(slot int) {
	for _, id := range r.dist.IDs(slot) {
		r.Unpause(id)
	}
}

// SetSlotVolume sets the gain of every instance spawned from slot.
func (r *Registry) SetSlotVolume(slot int, volume float32) {
	for _, id := range r.dist.IDs(slot) {
		r.SetVolume(id, volume)
	}
}

// Clear retires every instance and empties the distribution table.
func (r *Registry) Clear() {
	for id, idx := range r.index {
		r.arena[idx] = instance{}
		r.free = append(r.free, idx)
		delete(r.index, id)
	}
	r.dist.Reset()
}

// SetSampleRate changes the output rate. Cursors keep their position in
// source samples; only the per-instance step is recomputed. Zero is ignored.
func (r *Registry) SetSampleRate(rate uint32) {
	if rate == 0 || rate == r.rate {
		return
	}

	r.rate = rate
	for _, idx := range r.index {
		r.arena[idx].step = stepFor(r.arena[idx].track, rate)
	}
}

// SetChannels changes the output channel count. Instances keep their
// channel sets; channels at or beyond n are skipped while mixing.
// Values below 1 are ignored.
func (r *Registry) SetChannels(n int) {
	if n < 1 || n == r.chans {
		return
	}

	r.chans = n
	if cap(r.frame) < n {
		r.frame = make([]float32, n)
		return
	}
	r.frame = r.frame[:n]
}

// Status reports the state of id. Unknown IDs report Stopped and false.
func (r *Registry) Status(id ID) (Status, bool) {
	if in := r.lookup(id); in != nil {
		return in.status, true
	}

	return Stopped, false
}

// Volume reports the gain of id.
func (r *Registry) Volume(id ID) (float32, bool) {
	if in := r.lookup(id); in != nil {
		return in.volume, true
	}

	return 0, false
}

// Cursor reports the play position of id in source samples.
func (r *Registry) Cursor(id ID) (float64, bool) {
	if in := r.lookup(id); in != nil {
		return in.cursor, true
	}

	return 0, false
}

// NextFrame mixes one interleaved output frame and advances every Playing
// instance by one output sample period. The returned slice is reused by
// the next call.
func (r *Registry) NextFrame() []float32 {
	clear(r.frame)

	for i := range r.arena {
		in := &r.arena[i]
		if !in.live || in.status != Playing {
			continue
		}

		n := len(in.track.Samples)
		if n == 0 || in.step <= 0 {
			r.retire(int32(i))
			continue
		}

		v := r.read(in, n) * in.volume
		for _, ch := range in.channels {
			if ch < r.chans {
				r.frame[ch] += v
			}
		}

		in.cursor += in.step
		for in.cursor >= float64(n) {
			if in.repeats != 0 {
				in.repeats--
				if in.repeats == 0 {
					r.retire(int32(i))
					break
				}
			}
			in.cursor -= float64(n)
		}
	}

	return r.frame
}

// read samples the track of in at its cursor.
func (r *Registry) read(in *instance, n int) float32 {
	s := in.track.Samples
	pos := int(in.cursor)
	frac := float32(in.cursor - float64(pos))

	switch r.interp {
	case Nearest:
		if frac >= 0.5 {
			return s[in.neighbor(pos, 1, n)]
		}
		return s[pos]
	case Cubic:
		return utils.CubicInterpolate(
			s[in.neighbor(pos, -1, n)],
			s[pos],
			s[in.neighbor(pos, 1, n)],
			s[in.neighbor(pos, 2, n)],
			frac,
		)
	default:
		return utils.Lerp(s[pos], s[in.neighbor(pos, 1, n)], frac)
	}
}

// neighbor returns the index off samples away from pos. Past either edge
// it wraps when the instance will play the track again and holds the edge
// sample otherwise.
func (in *instance) neighbor(pos, off, n int) int {
	i := pos + off
	if i >= 0 && i < n {
		return i
	}

	if in.repeats != 1 {
		return ((i % n) + n) % n
	}
	if i < 0 {
		return 0
	}

	return n - 1
}

func (r *Registry) lookup(id ID) *instance {
	idx, ok := r.index[id]
	if !ok {
		return nil
	}

	return &r.arena[idx]
}

func (r *Registry) retire(idx int32) {
	in := &r.arena[idx]
	r.dist.Forget(in.slot, in.id)
	delete(r.index, in.id)
	*in = instance{}
	r.free = append(r.free, idx)
}

func stepFor(t *track.Track, rate uint32) float64 {
	if t == nil || rate == 0 {
		return 0
	}

	return float64(t.SampleRate) / float64(rate)
}

// normalizeChannels sorts, dedups and drops negative channel indices.
func normalizeChannels(channels []int) []int {
	slices.Sort(channels)
	channels = slices.Compact(channels)
	first := 0
	for first < len(channels) && channels[first] < 0 {
		first++
	}

	return channels[first:]
}

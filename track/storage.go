// SPDX-License-Identifier: EPL-2.0

package track

// Storage is a fixed-capacity positional arena of tracks. Slots are plain
// indices; they are never compacted or reassigned.
//
// Storage is not safe for concurrent use. The mixing engine owns it from
// the audio callback goroutine.
type Storage struct {
	slots []*Track
}

// NewStorage returns an empty Storage with capacity slots.
func NewStorage(capacity int) *Storage {
	if capacity < 0 {
		capacity = 0
	}

	return &Storage{slots: make([]*Track, capacity)}
}

// Capacity returns the number of slots.
func (s *Storage) Capacity() int { return len(s.slots) }

// InRange reports whether slot addresses a valid position.
func (s *Storage) InRange(slot int) bool { return slot >= 0 && slot < len(s.slots) }

// Set replaces the track at slot. It returns false and changes nothing when
// slot is out of range.
func (s *Storage) Set(slot int, t Track) bool {
	if !s.InRange(slot) {
		return false
	}

	s.slots[slot] = &t

	return true
}

// Get returns the track at slot, or false when the slot is out of range or
// was never loaded.
func (s *Storage) Get(slot int) (*Track, bool) {
	if !s.InRange(slot) {
		return nil, false
	}

	t := s.slots[slot]

	return t, t != nil
}

// Loaded returns the indices of slots that currently hold a track.
func (s *Storage) Loaded() []int {
	var out []int
	for i, t := range s.slots {
		if t != nil {
			out = append(out, i)
		}
	}

	return out
}

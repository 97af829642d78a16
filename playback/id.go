// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"strconv"
	"sync/atomic"
)

// ID identifies one playback instance. IDs are never reused, so a stale ID
// addresses nothing and every operation on it is a no-op.
type ID uint64

func (id ID) String() string { return strconv.FormatUint(uint64(id), 10) }

// IDSource mints instance IDs. It is safe for concurrent use so the control
// side can assign an ID at enqueue time, before the audio goroutine has
// created the instance. The zero value is ready to use and never issues 0.
type IDSource struct {
	last atomic.Uint64
}

// Next returns a fresh ID.
func (s *IDSource) Next() ID {
	return ID(s.last.Add(1))
}

// SPDX-License-Identifier: EPL-2.0

package command

import (
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/playback"
)

// DefaultSize is the queue capacity used when New is given a size < 1.
const DefaultSize = 1024

// Result tells the receiver what TryReceive found.
type Result int

const (
	Received Result = iota
	Empty
	// Disconnected means the sender shut down and every queued command
	// has been delivered.
	Disconnected
)

func (r Result) String() string {
	switch r {
	case Received:
		return "received"
	case Empty:
		return "empty"
	default:
		return "disconnected"
	}
}

type queue struct {
	ch chan Command

	shutdown atomic.Bool
	shut     chan struct{}
	shutOnce sync.Once

	stopped  chan struct{}
	stopOnce sync.Once
}

// New returns the two ends of a bounded FIFO command queue.
func New(size int) (*Sender, *Receiver) {
	if size < 1 {
		size = DefaultSize
	}

	q := &queue{
		ch:      make(chan Command, size),
		shut:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	return &Sender{q: q, ids: &playback.IDSource{}}, &Receiver{q: q}
}

// Receiver is the consuming end of the queue. Only one goroutine may
// receive.
type Receiver struct {
	q *queue
}

// TryReceive returns the next command without blocking.
func (r *Receiver) TryReceive() (Command, Result) {
	select {
	case c := <-r.q.ch:
		return c, Received
	default:
	}

	if !r.q.shutdown.Load() {
		return nil, Empty
	}

	// a send may have landed between the first poll and Shutdown
	select {
	case c := <-r.q.ch:
		return c, Received
	default:
		return nil, Disconnected
	}
}

// Disconnected reports whether the sender shut down and nothing is left
// to receive.
func (r *Receiver) Disconnected() bool {
	return r.q.shutdown.Load() && len(r.q.ch) == 0
}

// Pending returns the number of queued commands.
func (r *Receiver) Pending() int { return len(r.q.ch) }

// Stop marks the receiving side as gone. Blocked and future sends fail
// with ErrStopped. Queued commands are discarded.
func (r *Receiver) Stop() {
	r.q.stopOnce.Do(func() { close(r.q.stopped) })
}

// Stopped is closed once Stop has been called.
func (r *Receiver) Stopped() <-chan struct{} { return r.q.stopped }

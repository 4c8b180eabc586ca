// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// chunkCapacity is the bounded capacity for pipe chunk queues.
// 4 balances amortizing producer-side cached-index refresh cost while
// keeping ring buffers within a single cache line.
const chunkCapacity = 4

// wakerBox boxes a Waker for atomic pointer handoff.
type wakerBox struct {
	w Waker
}

// wakerSlot hands a parked Waker from the suspending side to the side that
// unblocks it. Swap-based: each parked waker is woken at most once.
// atomix covers integer atomics; pointer handoff uses the stdlib generic.
type wakerSlot struct {
	p atomic.Pointer[wakerBox]
}

// park registers w to be woken when the peer makes progress.
func (s *wakerSlot) park(w Waker) {
	s.p.Store(&wakerBox{w: w})
}

// wake fires and clears the parked waker, if any.
func (s *wakerSlot) wake() {
	if b := s.p.Swap(nil); b != nil {
		b.w.Wake()
	}
}

// clear drops the parked waker without firing it.
func (s *wakerSlot) clear() {
	s.p.Store(nil)
}

// PipeEndpoint is one side of an in-memory poll-based duplex byte stream.
// Each direction is a bounded single-producer single-consumer chunk queue,
// so each endpoint must be driven by at most one goroutine at a time.
//
// PipeEndpoint implements [PollReader] and [PollWriter]: not-ready is
// reported as iox.ErrWouldBlock with the caller's waker parked, and the
// peer fires it on the enqueue, dequeue, or close that unblocks the call.
type PipeEndpoint struct {
	sendQ      *lfq.SPSC[[]byte]
	recvQ      *lfq.SPSC[[]byte]
	sendClosed *atomix.Uint32
	recvClosed *atomix.Uint32
	readSlot   *wakerSlot
	writeSlot  *wakerSlot
	peerRead   *wakerSlot
	peerWrite  *wakerSlot
	residue    []byte
	serial     Serial
}

// Serial returns the serial number assigned to this endpoint's pipe pair.
func (e *PipeEndpoint) Serial() Serial {
	return e.serial
}

// pipePair holds both endpoints, queues, close flags, and waker slots in a
// single allocation. SPSC queues are embedded as values; only the ring
// buffers are separate heap objects.
type pipePair struct {
	a, b             PipeEndpoint
	dataAB, dataBA   lfq.SPSC[[]byte]
	closedA, closedB atomix.Uint32
	readA, readB     wakerSlot
	writeA, writeB   wakerSlot
}

// Pipe creates a connected pair of in-memory poll-based endpoints. Bytes
// written to one side become readable on the other, through a bounded
// lock-free SPSC chunk queue per direction.
//
// Pipe endpoints make natural inner endpoints for [AsyncReader] and
// [AsyncWriter]: they genuinely suspend (queue empty or full) and genuinely
// arm wakes, so scripted behavior layers on real readiness transitions.
func Pipe() (*PipeEndpoint, *PipeEndpoint) {
	s := nextSerial()

	pair := &pipePair{}
	pair.dataAB.Init(chunkCapacity)
	pair.dataBA.Init(chunkCapacity)

	pair.a = PipeEndpoint{
		sendQ:      &pair.dataAB,
		recvQ:      &pair.dataBA,
		sendClosed: &pair.closedA,
		recvClosed: &pair.closedB,
		readSlot:   &pair.readA,
		writeSlot:  &pair.writeA,
		peerRead:   &pair.readB,
		peerWrite:  &pair.writeB,
		serial:     s,
	}
	pair.b = PipeEndpoint{
		sendQ:      &pair.dataBA,
		recvQ:      &pair.dataAB,
		sendClosed: &pair.closedB,
		recvClosed: &pair.closedA,
		readSlot:   &pair.readB,
		writeSlot:  &pair.writeB,
		peerRead:   &pair.readA,
		peerWrite:  &pair.writeA,
		serial:     s,
	}
	return &pair.a, &pair.b
}

// PollRead implements PollReader. It drains any partially consumed chunk
// first, then dequeues the next one. After the peer closes and the queue
// drains, PollRead reports iox.EOF.
func (e *PipeEndpoint) PollRead(w Waker, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(e.residue) > 0 {
		n := copy(p, e.residue)
		e.residue = e.residue[n:]
		e.peerWrite.wake()
		return n, nil
	}
	chunk, err := e.recvQ.Dequeue()
	if err != nil {
		if e.recvClosed.Load() != 0 {
			// Re-check the queue after observing the close flag so an
			// enqueue racing with close is not lost.
			if chunk, err = e.recvQ.Dequeue(); err != nil {
				return 0, iox.EOF
			}
		} else {
			e.readSlot.park(w)
			// Re-check after parking to close the race with an enqueue
			// that missed the parked waker.
			if chunk, err = e.recvQ.Dequeue(); err != nil {
				if e.recvClosed.Load() != 0 {
					e.readSlot.clear()
					return 0, iox.EOF
				}
				return 0, iox.ErrWouldBlock
			}
			e.readSlot.clear()
		}
	}
	n := copy(p, chunk)
	e.residue = chunk[n:]
	e.peerWrite.wake()
	return n, nil
}

// PollWrite implements PollWriter. The queue owns a copy of p, so the
// caller may reuse the buffer immediately. When the chunk queue is full,
// PollWrite parks w and reports iox.ErrWouldBlock; the peer's next dequeue
// fires the wake.
func (e *PipeEndpoint) PollWrite(w Waker, p []byte) (int, error) {
	if e.sendClosed.Load() != 0 {
		return 0, iox.ErrClosedPipe
	}
	if len(p) == 0 {
		return 0, nil
	}
	chunk := append([]byte(nil), p...)
	if err := e.sendQ.Enqueue(&chunk); err != nil {
		e.writeSlot.park(w)
		// Re-check after parking to close the race with a dequeue that
		// missed the parked waker.
		if err = e.sendQ.Enqueue(&chunk); err != nil {
			return 0, iox.ErrWouldBlock
		}
		e.writeSlot.clear()
	}
	e.peerRead.wake()
	return len(p), nil
}

// PollFlush implements PollWriter. Chunks are visible to the peer as soon
// as they are enqueued, so flush only nudges a parked reader.
func (e *PipeEndpoint) PollFlush(Waker) error {
	e.peerRead.wake()
	return nil
}

// PollClose implements PollWriter. It closes this endpoint's send
// direction: the peer reads iox.EOF once the queue drains, and further
// writes on this side fail with iox.ErrClosedPipe. The receive direction
// is unaffected.
func (e *PipeEndpoint) PollClose(Waker) error {
	e.sendClosed.Add(1)
	e.peerRead.wake()
	return nil
}

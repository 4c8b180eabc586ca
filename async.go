// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"errors"

	"code.hybscloud.com/iox"
)

// AsyncReader wraps a poll-based reader with script semantics.
//
// The sequencer is consulted once per logical call. If the script grants k
// bytes but the inner endpoint reports not-ready, the grant is held until
// the inner poll resolves: a re-poll of the same logical call must not
// consume a second op.
//
// A scripted would-block is self-waking. No inner endpoint was invoked to
// arrange a future wake, so PollRead wakes w itself before returning
// not-ready; the suspended call is re-polled on the next scheduler turn
// without any external stimulus. A scripted interrupt is resolved within
// the same poll attempt by consuming the next op; consecutive interrupts
// are all absorbed in one poll, bounded by the script being finite.
type AsyncReader struct {
	inner   PollReader
	seq     sequencer
	grant   int
	granted bool
}

// NewAsyncReader wraps inner with the given script. The AsyncReader takes
// ownership of ops; the caller must not mutate the slice afterwards.
func NewAsyncReader(inner PollReader, ops []Op) *AsyncReader {
	return &AsyncReader{inner: inner, seq: sequencer{ops: ops}}
}

// SetOps replaces the remaining script, discarding any unconsumed ops.
// An in-flight grant is unaffected: the current logical call still resolves
// under its original decision.
func (r *AsyncReader) SetOps(ops []Op) {
	r.seq.replace(ops)
}

// Inner returns the wrapped poll reader.
func (r *AsyncReader) Inner() PollReader {
	return r.inner
}

// PollRead implements PollReader with script semantics. See the type
// documentation for the suspension and wake contract.
func (r *AsyncReader) PollRead(w Waker, p []byte) (int, error) {
	for {
		var k int
		if r.granted {
			k = min(r.grant, len(p))
		} else {
			d := r.seq.next(len(p))
			if d.err != nil {
				switch {
				case errors.Is(d.err, iox.ErrWouldBlock):
					// Synthetic not-ready: nothing else will re-arm
					// this call, so schedule the re-poll ourselves.
					w.Wake()
					return 0, iox.ErrWouldBlock
				case errors.Is(d.err, ErrInterrupted):
					// Nothing happened; resolve within this poll by
					// consuming the next op.
					continue
				default:
					return 0, d.err
				}
			}
			k = d.n
		}
		n, err := r.inner.PollRead(w, p[:k])
		if err != nil && errors.Is(err, iox.ErrWouldBlock) {
			// The inner endpoint armed the wake. Hold the grant so the
			// re-poll of this logical call skips the sequencer.
			r.grant, r.granted = k, true
			return 0, iox.ErrWouldBlock
		}
		r.granted = false
		return n, err
	}
}

// AsyncWriter wraps a poll-based writer with script semantics. The
// suspension and wake contract matches [AsyncReader]; PollWrite, PollFlush,
// and PollClose draw from the same script in call order.
//
// At most one logical call may be in flight at a time: a PollWrite that
// returned not-ready must be re-polled before starting a flush or close.
type AsyncWriter struct {
	inner   PollWriter
	seq     sequencer
	grant   int
	granted bool
}

// NewAsyncWriter wraps inner with the given script. The AsyncWriter takes
// ownership of ops; the caller must not mutate the slice afterwards.
func NewAsyncWriter(inner PollWriter, ops []Op) *AsyncWriter {
	return &AsyncWriter{inner: inner, seq: sequencer{ops: ops}}
}

// SetOps replaces the remaining script, discarding any unconsumed ops.
// An in-flight grant is unaffected: the current logical call still resolves
// under its original decision.
func (w *AsyncWriter) SetOps(ops []Op) {
	w.seq.replace(ops)
}

// Inner returns the wrapped poll writer.
func (w *AsyncWriter) Inner() PollWriter {
	return w.inner
}

// PollWrite implements PollWriter with script semantics.
func (w *AsyncWriter) PollWrite(wk Waker, p []byte) (int, error) {
	for {
		var k int
		if w.granted {
			k = min(w.grant, len(p))
		} else {
			d := w.seq.next(len(p))
			if d.err != nil {
				switch {
				case errors.Is(d.err, iox.ErrWouldBlock):
					wk.Wake()
					return 0, iox.ErrWouldBlock
				case errors.Is(d.err, ErrInterrupted):
					continue
				default:
					return 0, d.err
				}
			}
			k = d.n
		}
		n, err := w.inner.PollWrite(wk, p[:k])
		if err != nil && errors.Is(err, iox.ErrWouldBlock) {
			w.grant, w.granted = k, true
			return 0, iox.ErrWouldBlock
		}
		w.granted = false
		return n, err
	}
}

// PollFlush consumes one op for the logical flush (byte caps do not apply;
// only Fail ops synthesize) and then polls the inner flush.
func (w *AsyncWriter) PollFlush(wk Waker) error {
	return w.pollControl(wk, w.inner.PollFlush)
}

// PollClose consumes one op for the logical close (byte caps do not apply;
// only Fail ops synthesize) and then polls the inner close.
func (w *AsyncWriter) PollClose(wk Waker) error {
	return w.pollControl(wk, w.inner.PollClose)
}

// pollControl is the shared flush/close path: decide once per logical call,
// hold the decision across inner not-ready, self-wake on scripted
// would-block, absorb scripted interrupts within the poll.
func (w *AsyncWriter) pollControl(wk Waker, poll func(Waker) error) error {
	if !w.granted {
		for {
			err := w.seq.nextAny()
			if err == nil {
				break
			}
			switch {
			case errors.Is(err, iox.ErrWouldBlock):
				wk.Wake()
				return iox.ErrWouldBlock
			case errors.Is(err, ErrInterrupted):
				continue
			default:
				return err
			}
		}
		w.grant, w.granted = 0, true
	}
	err := poll(wk)
	if err != nil && errors.Is(err, iox.ErrWouldBlock) {
		return iox.ErrWouldBlock
	}
	w.granted = false
	return err
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"errors"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Result is the completed outcome of one stream operation. Endpoint errors
// (scripted terminal errors, iox.EOF, short-write conditions) are carried
// as values; only would-block is control flow in the suspension world.
type Result struct {
	N   int
	Err error
}

// wakeFlag is the Waker the bridge hands to every poll attempt. Wakes are
// recorded, not acted on: the driver consumes the flag to decide whether to
// re-poll immediately or wait. Atomic because pipe peers may wake from
// another goroutine.
type wakeFlag struct {
	pending atomix.Uint32
}

// Wake implements Waker.
func (f *wakeFlag) Wake() {
	f.pending.Add(1)
}

// take reports whether a wake arrived since the last take, and clears it.
func (f *wakeFlag) take() bool {
	return f.pending.Swap(0) != 0
}

// streamContext holds the scripted endpoints and wake flag for one stream.
type streamContext struct {
	r    *AsyncReader
	w    *AsyncWriter
	wake wakeFlag
}

// streamDispatcher is the structural interface for stream operations.
// DispatchStream is non-blocking: it returns iox.ErrWouldBlock at the
// suspension boundary; completed outcomes come back as Result values.
type streamDispatcher interface {
	DispatchStream(ctx *streamContext) (kont.Resumed, error)
}

// Stream bundles scripted poll endpoints for suspension-world protocols.
// Either side may be nil for a read-only or write-only stream; dispatching
// an operation on a missing side panics.
type Stream struct {
	ctx streamContext
}

// NewStream builds a stream over the given scripted adapters. Each adapter
// owns its own script; they are never shared.
func NewStream(r *AsyncReader, w *AsyncWriter) *Stream {
	return &Stream{ctx: streamContext{r: r, w: w}}
}

// Woken reports whether a wake arrived since the last call, and clears it.
// After Advance returns iox.ErrWouldBlock, true means the re-poll is
// already scheduled (a scripted would-block self-woke, or the pipe peer
// made progress): drivers should retry immediately instead of backing off.
func (s *Stream) Woken() bool {
	return s.ctx.wake.take()
}

// Read is the effect operation for reading into Buf.
// Perform(Read{Buf: p}) resolves to a Result.
type Read struct {
	kont.Phantom[Result]
	Buf []byte
}

// DispatchStream handles Read on the stream's scripted read side.
func (op Read) DispatchStream(ctx *streamContext) (kont.Resumed, error) {
	if ctx.r == nil {
		panic("partio: Read on a stream with no read side")
	}
	n, err := ctx.r.PollRead(&ctx.wake, op.Buf)
	if err != nil && errors.Is(err, iox.ErrWouldBlock) {
		return nil, iox.ErrWouldBlock
	}
	return Result{N: n, Err: err}, nil
}

// Write is the effect operation for writing Buf.
// Perform(Write{Buf: p}) resolves to a Result.
type Write struct {
	kont.Phantom[Result]
	Buf []byte
}

// DispatchStream handles Write on the stream's scripted write side.
func (op Write) DispatchStream(ctx *streamContext) (kont.Resumed, error) {
	if ctx.w == nil {
		panic("partio: Write on a stream with no write side")
	}
	n, err := ctx.w.PollWrite(&ctx.wake, op.Buf)
	if err != nil && errors.Is(err, iox.ErrWouldBlock) {
		return nil, iox.ErrWouldBlock
	}
	return Result{N: n, Err: err}, nil
}

// Flush is the effect operation for flushing the write side.
// Perform(Flush{}) resolves to a Result with N == 0.
type Flush struct {
	kont.Phantom[Result]
}

// DispatchStream handles Flush on the stream's scripted write side.
func (Flush) DispatchStream(ctx *streamContext) (kont.Resumed, error) {
	if ctx.w == nil {
		panic("partio: Flush on a stream with no write side")
	}
	err := ctx.w.PollFlush(&ctx.wake)
	if err != nil && errors.Is(err, iox.ErrWouldBlock) {
		return nil, iox.ErrWouldBlock
	}
	return Result{Err: err}, nil
}

// Close is the effect operation for closing the write side.
// Perform(Close{}) resolves to a Result with N == 0.
type Close struct {
	kont.Phantom[Result]
}

// DispatchStream handles Close on the stream's scripted write side.
func (Close) DispatchStream(ctx *streamContext) (kont.Resumed, error) {
	if ctx.w == nil {
		panic("partio: Close on a stream with no write side")
	}
	err := ctx.w.PollClose(&ctx.wake)
	if err != nil && errors.Is(err, iox.ErrWouldBlock) {
		return nil, iox.ErrWouldBlock
	}
	return Result{Err: err}, nil
}

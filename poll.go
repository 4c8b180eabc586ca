// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/iox"
)

// Waker re-arms a suspended poll attempt. A poll method that returns
// iox.ErrWouldBlock must first arrange for Wake to be called once progress
// may be possible again; otherwise the suspended call has nothing to
// re-poll it. Wakes may be spurious; a woken caller simply polls again.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake implements Waker.
func (f WakerFunc) Wake() { f() }

// PollReader is the poll-based read contract. PollRead either completes
// immediately, returning bytes moved or an error, or returns
// iox.ErrWouldBlock after arranging for w to be woken.
type PollReader interface {
	PollRead(w Waker, p []byte) (int, error)
}

// PollWriter is the poll-based write contract. Each method either completes
// immediately or returns iox.ErrWouldBlock after arranging for w to be
// woken.
type PollWriter interface {
	PollWrite(w Waker, p []byte) (int, error)
	PollFlush(w Waker) error
	PollClose(w Waker) error
}

// ReadyReader lifts a blocking reader into the poll world. Every poll
// completes immediately; the waker is never retained.
type ReadyReader struct {
	R iox.Reader
}

// PollRead implements PollReader by delegating to the blocking Read.
func (r ReadyReader) PollRead(_ Waker, p []byte) (int, error) {
	return r.R.Read(p)
}

// ReadyWriter lifts a blocking writer into the poll world. Every poll
// completes immediately; the waker is never retained.
type ReadyWriter struct {
	W iox.Writer
}

// PollWrite implements PollWriter by delegating to the blocking Write.
func (w ReadyWriter) PollWrite(_ Waker, p []byte) (int, error) {
	return w.W.Write(p)
}

// PollFlush flushes the inner writer if it implements [Flusher].
func (w ReadyWriter) PollFlush(Waker) error {
	if f, ok := w.W.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// PollClose closes the inner writer if it implements iox.Closer.
func (w ReadyWriter) PollClose(Waker) error {
	if c, ok := w.W.(iox.Closer); ok {
		return c.Close()
	}
	return nil
}

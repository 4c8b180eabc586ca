// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/iox"
)

// Flusher is the optional flush surface of a buffered writer.
type Flusher interface {
	Flush() error
}

// Writer wraps a blocking writer, truncating and interleaving writes
// according to a script of ops. Error semantics match [Reader]: transient
// errors are synthesized for the caller to retry, terminal errors propagate
// verbatim, and the inner writer is never invoked for a scripted error.
//
// Write, Flush, and Close draw from the same script in call order, so a
// script can stage behavior across all three.
type Writer struct {
	inner iox.Writer
	seq   sequencer
}

// NewWriter wraps inner with the given script. The Writer takes ownership
// of ops; the caller must not mutate the slice afterwards.
func NewWriter(inner iox.Writer, ops []Op) *Writer {
	return &Writer{inner: inner, seq: sequencer{ops: ops}}
}

// SetOps replaces the remaining script, discarding any unconsumed ops.
func (w *Writer) SetOps(ops []Op) {
	w.seq.replace(ops)
}

// Inner returns the wrapped writer.
func (w *Writer) Inner() iox.Writer {
	return w.inner
}

// Write implements iox.Writer. It consumes at most one op: Limited caps the
// write to min(len(p), n) bytes, Unlimited and an exhausted script pass
// through, and Fail returns the scripted error with the inner writer
// untouched. A capped write reports only the bytes the inner writer
// accepted; callers observe it as an ordinary short write.
func (w *Writer) Write(p []byte) (int, error) {
	d := w.seq.next(len(p))
	if d.err != nil {
		return 0, d.err
	}
	return w.inner.Write(p[:d.n])
}

// Flush consumes one op (byte caps do not apply; only Fail ops synthesize)
// and then flushes the inner writer if it implements [Flusher].
func (w *Writer) Flush() error {
	if err := w.seq.nextAny(); err != nil {
		return err
	}
	if f, ok := w.inner.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close consumes one op (byte caps do not apply; only Fail ops synthesize)
// and then closes the inner writer if it implements iox.Closer.
func (w *Writer) Close() error {
	if err := w.seq.nextAny(); err != nil {
		return err
	}
	if c, ok := w.inner.(iox.Closer); ok {
		return c.Close()
	}
	return nil
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/iox"
)

// Reader wraps a blocking reader, truncating and interleaving reads
// according to a script of ops.
//
// Scripted errors are synthesized without invoking the inner reader.
// [iox.ErrWouldBlock] and [ErrInterrupted] are transient: the caller decides
// whether and when to retry, exactly as with ordinary blocking I/O; Reader
// never loops internally. Any other scripted error is terminal for that
// call. The op that produced an error has already been consumed, so a retry
// sees the next op, never a re-delivery.
type Reader struct {
	inner iox.Reader
	seq   sequencer
}

// NewReader wraps inner with the given script. The Reader takes ownership
// of ops; the caller must not mutate the slice afterwards.
func NewReader(inner iox.Reader, ops []Op) *Reader {
	return &Reader{inner: inner, seq: sequencer{ops: ops}}
}

// SetOps replaces the remaining script, discarding any unconsumed ops.
func (r *Reader) SetOps(ops []Op) {
	r.seq.replace(ops)
}

// Inner returns the wrapped reader.
func (r *Reader) Inner() iox.Reader {
	return r.inner
}

// Read implements iox.Reader. It consumes at most one op: Limited caps the
// read to min(len(p), n) bytes, Unlimited and an exhausted script pass
// through, and Fail returns the scripted error with the inner reader
// untouched. Whatever the inner reader returns is propagated unmodified.
func (r *Reader) Read(p []byte) (int, error) {
	d := r.seq.next(len(p))
	if d.err != nil {
		return 0, d.err
	}
	return r.inner.Read(p[:d.n])
}

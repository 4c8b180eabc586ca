// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio_test

import (
	"bytes"
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/partio"
)

// errBoom is the terminal "other" error used across tests.
var errBoom = errors.New("boom")

// trackReader serves from src and records the buffer length of every Read
// it receives, so tests can prove what the script let through.
type trackReader struct {
	src  *bytes.Reader
	lens []int
}

func (r *trackReader) Read(p []byte) (int, error) {
	r.lens = append(r.lens, len(p))
	return r.src.Read(p)
}

// trackWriter accepts everything and records the buffer length of every
// Write it receives.
type trackWriter struct {
	buf  bytes.Buffer
	lens []int
}

func (w *trackWriter) Write(p []byte) (int, error) {
	w.lens = append(w.lens, len(p))
	return w.buf.Write(p)
}

// tripwireReader fails the test contract if the inner endpoint is ever
// touched: scripted errors must never reach it.
type tripwireReader struct{ calls int }

func (r *tripwireReader) Read([]byte) (int, error) {
	r.calls++
	return 0, errors.New("inner endpoint invoked")
}

// countWaker records how many times it was woken.
type countWaker struct{ n int }

func (w *countWaker) Wake() { w.n++ }

// blockOncePoll reports not-ready on its first poll (retaining the waker
// for a later manual fire), then serves from src. It records the buffer
// length of every poll so grant caching is observable.
type blockOncePoll struct {
	src     *bytes.Reader
	blocked bool
	parked  partio.Waker
	lens    []int
}

func (r *blockOncePoll) PollRead(w partio.Waker, p []byte) (int, error) {
	r.lens = append(r.lens, len(p))
	if !r.blocked {
		r.blocked = true
		r.parked = w
		return 0, iox.ErrWouldBlock
	}
	return r.src.Read(p)
}

// readAll drains r, retrying transient conditions, and returns everything
// read. Caps the loop so a broken adapter cannot hang the test.
func readAll(r *partio.Reader) ([]byte, error) {
	var out []byte
	buf := make([]byte, 8)
	for range 4096 {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		switch {
		case err == nil:
		case errors.Is(err, iox.EOF):
			return out, nil
		case errors.Is(err, partio.ErrWouldBlock), errors.Is(err, partio.ErrInterrupted):
			// transient: retry
		default:
			return out, err
		}
	}
	return out, errors.New("readAll: no EOF after 4096 reads")
}

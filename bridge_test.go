// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio_test

import (
	"bytes"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/partio"
)

// writeAllThen writes all of data, retrying short writes, closes the write
// side, and finishes with the total byte count. Endpoint errors end the
// protocol early with the count so far.
func writeAllThen(data []byte) kont.Eff[int] {
	return kont.Bind(
		partio.Loop(0, func(off int) kont.Eff[kont.Either[int, int]] {
			if off >= len(data) {
				return kont.Pure(kont.Right[int, int](off))
			}
			return partio.WriteBind(data[off:], func(r partio.Result) kont.Eff[kont.Either[int, int]] {
				if r.Err != nil {
					return kont.Pure(kont.Right[int, int](off + r.N))
				}
				return kont.Pure(kont.Left[int, int](off + r.N))
			})
		}),
		func(total int) kont.Eff[int] {
			return partio.CloseDone(total)
		},
	)
}

// collectAll reads until the stream reports an error (iox.EOF on a drained
// closed pipe) and finishes with everything read.
func collectAll() kont.Eff[[]byte] {
	buf := make([]byte, 4)
	return partio.Loop([]byte(nil), func(acc []byte) kont.Eff[kont.Either[[]byte, []byte]] {
		return partio.ReadBind(buf, func(r partio.Result) kont.Eff[kont.Either[[]byte, []byte]] {
			acc = append(acc, buf[:r.N]...)
			if r.Err != nil {
				return kont.Pure(kont.Right[[]byte, []byte](acc))
			}
			return kont.Pure(kont.Left[[]byte, []byte](acc))
		})
	})
}

func TestRunPipeStreamsPassThrough(t *testing.T) {
	skipRace(t)
	data := []byte("the quick brown fox jumps over the lazy dog")
	sa, sb := partio.PipeStreams(nil, nil, nil, nil)

	wrote, got := partio.Run(sa, sb, writeAllThen(data), collectAll())
	if wrote != len(data) {
		t.Fatalf("wrote %d, want %d", wrote, len(data))
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

// TestRunPipeStreamsScripted proves data survives scripts on all four
// adapters: byte caps fragment transfers and scripted would-blocks force
// extra scheduler turns, but every byte still arrives in order.
func TestRunPipeStreamsScripted(t *testing.T) {
	skipRace(t)
	data := []byte("partial delivery is still delivery")
	sa, sb := partio.PipeStreams(
		[]partio.Op{partio.Limited(2), partio.Fail(partio.ErrWouldBlock), partio.Unlimited()},
		[]partio.Op{partio.Limited(3), partio.Fail(partio.ErrInterrupted), partio.Limited(1), partio.Fail(partio.ErrWouldBlock)},
		[]partio.Op{partio.Fail(partio.ErrWouldBlock), partio.Limited(1), partio.Fail(partio.ErrInterrupted), partio.Limited(2)},
		[]partio.Op{partio.Fail(partio.ErrWouldBlock), partio.Unlimited()},
	)

	wrote, got := partio.Run(sa, sb, writeAllThen(data), collectAll())
	if wrote != len(data) {
		t.Fatalf("wrote %d, want %d", wrote, len(data))
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestExecSingleStream(t *testing.T) {
	// Exec over always-ready endpoints needs no peer: read until EOF.
	src := partio.ReadyReader{R: bytes.NewReader([]byte("exec me"))}
	s := partio.NewStream(partio.NewAsyncReader(src, []partio.Op{
		partio.Limited(3),
		partio.Fail(partio.ErrWouldBlock),
		partio.Fail(partio.ErrInterrupted),
		partio.Unlimited(),
	}), nil)

	got := partio.Exec(s, collectAll())
	if string(got) != "exec me" {
		t.Fatalf("got %q, want %q", got, "exec me")
	}
}

func TestExecExprFlushClose(t *testing.T) {
	// Expr-world protocol over a ready sink: write, flush, close.
	inner := &flushCloseWriter{}
	s := partio.NewStream(nil, partio.NewAsyncWriter(partio.ReadyWriter{W: inner}, []partio.Op{
		partio.Fail(partio.ErrWouldBlock),
		partio.Unlimited(),
		partio.Fail(partio.ErrInterrupted),
		partio.Unlimited(),
		partio.Unlimited(),
	}))

	protocol := partio.ExprWriteBind([]byte("out"), func(w partio.Result) kont.Expr[partio.Result] {
		return partio.ExprFlushBind(func(partio.Result) kont.Expr[partio.Result] {
			return partio.ExprCloseDone(w)
		})
	})

	result := partio.ExecExpr(s, protocol)
	if result.N != 3 || result.Err != nil {
		t.Fatalf("write result got (%d, %v), want (3, nil)", result.N, result.Err)
	}
	if inner.String() != "out" {
		t.Fatalf("sink got %q, want %q", inner.String(), "out")
	}
	if inner.flushed != 1 || inner.closed != 1 {
		t.Fatalf("flushed=%d closed=%d, want 1 and 1", inner.flushed, inner.closed)
	}
}

func TestReifyContToExpr(t *testing.T) {
	skipRace(t)
	// Cont protocol → Reify → RunExpr
	data := []byte("reified")
	sa, sb := partio.PipeStreams(nil, nil, nil, nil)

	wrote, got := partio.RunExpr(sa, sb,
		partio.Reify(writeAllThen(data)),
		partio.Reify(collectAll()),
	)
	if wrote != len(data) {
		t.Fatalf("wrote %d, want %d", wrote, len(data))
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q, want %q", got, data)
	}
}

func TestReflectExprToCont(t *testing.T) {
	// Expr protocol → Reflect → Exec
	src := partio.ReadyReader{R: bytes.NewReader([]byte("back again"))}
	s := partio.NewStream(partio.NewAsyncReader(src, nil), nil)

	buf := make([]byte, 16)
	expr := partio.ExprReadBind(buf, func(r partio.Result) kont.Expr[string] {
		return kont.ExprReturn(string(buf[:r.N]))
	})

	got := partio.Exec(s, partio.Reflect(expr))
	if got != "back again" {
		t.Fatalf("got %q, want %q", got, "back again")
	}
}

func TestRoundTripReifyReflect(t *testing.T) {
	// Reflect(Reify(cont)) preserves semantics
	src := partio.ReadyReader{R: bytes.NewReader([]byte("xyz"))}
	s := partio.NewStream(partio.NewAsyncReader(src, []partio.Op{partio.Limited(2)}), nil)

	buf := make([]byte, 8)
	cont := partio.ReadBind(buf, func(r partio.Result) kont.Eff[int] {
		return kont.Pure(r.N)
	})

	n := partio.Exec(s, partio.Reflect(partio.Reify(cont)))
	if n != 2 {
		t.Fatalf("got %d, want 2", n)
	}
}

// TestResultCarriesEndpointError proves endpoint errors arrive as Result
// values, not suspension-world control flow.
func TestResultCarriesEndpointError(t *testing.T) {
	src := partio.ReadyReader{R: bytes.NewReader(nil)}
	s := partio.NewStream(partio.NewAsyncReader(src, nil), nil)

	r := partio.Exec(s, partio.ReadBind(make([]byte, 4), func(r partio.Result) kont.Eff[partio.Result] {
		return kont.Pure(r)
	}))
	if r.Err != iox.EOF {
		t.Fatalf("got %v, want EOF", r.Err)
	}
}

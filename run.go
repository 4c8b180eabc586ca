// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// PipeStreams creates a connected pipe pair and wraps each end as a
// scripted stream. Each of the four adapters (read and write side of each
// end) owns its own script; pass nil for pass-through behavior.
func PipeStreams(aRead, aWrite, bRead, bWrite []Op) (*Stream, *Stream) {
	epA, epB := Pipe()
	a := NewStream(NewAsyncReader(epA, aRead), NewAsyncWriter(epA, aWrite))
	b := NewStream(NewAsyncReader(epB, bRead), NewAsyncWriter(epB, bWrite))
	return a, b
}

// Run runs two Cont-world stream protocols against sa and sb, interleaving
// execution on the calling goroutine. When neither side can make progress
// and no wake is pending, Run backs off adaptively (iox.Backoff). Does not
// spawn goroutines or create channels.
//
// Typical use pairs Run with [PipeStreams]: two protocols exchanging bytes
// through scripted ends of one pipe.
func Run[A, B any](sa, sb *Stream, a kont.Eff[A], b kont.Eff[B]) (A, B) {
	return RunExpr(sa, sb, Reify(a), Reify(b))
}

// RunExpr runs two Expr-world stream protocols against sa and sb,
// interleaving execution on the calling goroutine. Semantics match [Run].
func RunExpr[A, B any](sa, sb *Stream, a kont.Expr[A], b kont.Expr[B]) (A, B) {
	resultA, suspA := Step[A](a)
	resultB, suspB := Step[B](b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance(sa, suspA)
			if err == nil || sa.Woken() {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance(sb, suspB)
			if err == nil || sb.Woken() {
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}

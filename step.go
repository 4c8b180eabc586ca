// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a stream protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended stream operation on s. Dispatch is
// non-blocking: it returns iox.ErrWouldBlock at the suspension boundary
// (scripted or from the inner endpoint).
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion. On iox.ErrWouldBlock, the
// suspension is unconsumed and may be retried; consult s.Woken() to decide
// between an immediate re-poll and waiting for readiness.
func Advance[R any](s *Stream, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	sop, ok := susp.Op().(streamDispatcher)
	if !ok {
		panic("partio: unhandled effect in Advance")
	}
	v, err := sop.DispatchStream(&s.ctx)
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}

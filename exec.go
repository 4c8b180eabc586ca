// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// streamHandler implements kont.Handler for stream effects, converting
// non-blocking dispatch into blocking evaluation for Exec/ExecExpr.
type streamHandler[R any] struct {
	ctx *streamContext
}

// Dispatch implements kont.Handler via structural interface assertion.
// Waits past the iox.ErrWouldBlock boundary; see dispatchWait.
func (h streamHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	sop, ok := op.(streamDispatcher)
	if !ok {
		panic("partio: unhandled effect in streamHandler")
	}
	return dispatchWait(h.ctx, sop), true
}

// dispatchWait retries DispatchStream until it completes. A recorded wake
// means the re-poll is already scheduled (scripted would-block self-wakes,
// pipe peer progress), so retry without sleeping; otherwise back off
// adaptively with iox.Backoff until the endpoint becomes ready.
func dispatchWait(ctx *streamContext, sop streamDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := sop.DispatchStream(ctx)
		if err == nil {
			return v
		}
		if ctx.wake.take() {
			bo.Reset()
			continue
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world stream protocol on s, waiting past suspension
// boundaries without spawning goroutines or creating channels.
func Exec[R any](s *Stream, protocol kont.Eff[R]) R {
	h := streamHandler[R]{ctx: &s.ctx}
	return kont.Handle(protocol, h)
}

// ExecExpr runs an Expr-world stream protocol on s, waiting past suspension
// boundaries without spawning goroutines or creating channels.
func ExecExpr[R any](s *Stream, protocol kont.Expr[R]) R {
	h := streamHandler[R]{ctx: &s.ctx}
	return kont.HandleExpr(protocol, h)
}

// Reify converts a Cont-world stream protocol to Expr-world. The resulting
// Expr can be evaluated with ExecExpr or stepped with Step and Advance.
func Reify[A any](m kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(m)
}

// Reflect converts an Expr-world stream protocol to Cont-world. The
// resulting Eff can be evaluated with Exec or Run.
func Reflect[A any](m kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(m)
}

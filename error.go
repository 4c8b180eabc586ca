// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// streamErrorHandler handles both stream and error effects. Stream ops wait
// at the suspension boundary via dispatchWait; error ops short-circuit on
// Throw. Value type: passed to evalFrames on the stack, avoiding heap
// allocation.
type streamErrorHandler[E, A any] struct {
	ctx    *streamContext
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Stream+Error handler.
// Dispatch order: Stream → Error.
func (h streamErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if sop, ok := op.(streamDispatcher); ok {
		return dispatchWait(h.ctx, sop), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("partio: unhandled effect in streamErrorHandler")
}

// ExecError runs a stream protocol with error handling on s.
// Returns Either[E, R] — Right on success, Left on Throw. Waits past
// suspension boundaries without spawning goroutines or creating channels.
func ExecError[E, R any](s *Stream, protocol kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := streamErrorHandler[E, R]{ctx: &s.ctx, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr runs an Expr-world stream protocol with error handling on
// s. Returns Either[E, R] — Right on success, Left on Throw.
func ExecErrorExpr[E, R any](s *Stream, protocol kont.Expr[R]) kont.Either[E, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := streamErrorHandler[E, R]{ctx: &s.ctx, errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// RunError runs two Cont-world stream protocols with error handling against
// sa and sb, interleaving execution on the calling goroutine. Returns both
// results as Either values. Does not spawn goroutines or create channels.
//
// Typical use pairs RunError with [PipeStreams].
func RunError[E, A, B any](sa, sb *Stream, a kont.Eff[A], b kont.Eff[B]) (kont.Either[E, A], kont.Either[E, B]) {
	return RunErrorExpr[E](sa, sb, Reify(a), Reify(b))
}

// RunErrorExpr runs two Expr-world stream protocols with error handling
// against sa and sb, interleaving execution on the calling goroutine.
// Semantics match [RunError].
func RunErrorExpr[E, A, B any](sa, sb *Stream, a kont.Expr[A], b kont.Expr[B]) (kont.Either[E, A], kont.Either[E, B]) {
	resultA, suspA := StepError[E, A](a)
	resultB, suspB := StepError[E, B](b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = AdvanceError[E](sa, suspA)
			if err == nil || sa.Woken() {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = AdvanceError[E](sb, suspB)
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

// StepError evaluates a stream protocol with error support until the first
// effect suspension. Returns (Either[E, R], nil) on completion or error,
// or (zero, suspension) if pending.
func StepError[E, R any](protocol kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation on s. Stream ops are
// non-blocking (iox.ErrWouldBlock leaves the suspension unconsumed). Error
// ops are eager: Throw discards the suspension and returns Left.
func AdvanceError[E, R any](s *Stream, susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	// Stream ops: non-blocking dispatch
	if sop, ok := susp.Op().(streamDispatcher); ok {
		v, err := sop.DispatchStream(&s.ctx)
		if err != nil {
			var zero kont.Either[E, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	// Error ops: eager dispatch
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("partio: unhandled effect in AdvanceError")
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased operations and frames to eliminate heap escapes
// when boxing empty structs into any/kont.Frame during Expr-world
// execution. Read and Write carry a buffer and cannot be pre-boxed.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprFlush       kont.Erased = Flush{}
	exprClose       kont.Erased = Close{}
)

// identityResume is the identity resume function for EffectFrame
// construction. Named function produces a static function value,
// consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

func resultBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(Result) kont.Expr[B])
	result := f(current.(Result))
	return kont.Erased(result.Value), result.Frame
}

// ExprReadBind reads into buf and passes the completed Result to f.
// Fuses ExprPerform(Read{Buf: buf}) + ExprBind.
func ExprReadBind[B any](buf []byte, f func(Result) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = resultBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Read{Buf: buf}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprWriteBind writes buf and passes the completed Result to f.
// Fuses ExprPerform(Write{Buf: buf}) + ExprBind.
func ExprWriteBind[B any](buf []byte, f func(Result) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = resultBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Write{Buf: buf}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprFlushBind flushes the write side and passes the completed Result to
// f. Fuses ExprPerform(Flush{}) + ExprBind.
func ExprFlushBind[B any](f func(Result) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = resultBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprFlush
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprCloseDone closes the write side and returns a, discarding the close
// outcome. Fuses ExprPerform(Close{}) + ExprThen + ExprReturn.
func ExprCloseDone[A any](a A) kont.Expr[A] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: exprReturnFrame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprClose
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[A](ef)
}

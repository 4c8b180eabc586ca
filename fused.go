// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"code.hybscloud.com/kont"
)

// ReadBind reads into buf and passes the completed Result to f.
// Fuses Perform(Read{Buf: buf}) + Bind.
func ReadBind[B any](buf []byte, f func(Result) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Read{Buf: buf}), f)
}

// WriteBind writes buf and passes the completed Result to f.
// Fuses Perform(Write{Buf: buf}) + Bind. Short writes are ordinary results
// here: check Result.N against len(buf).
func WriteBind[B any](buf []byte, f func(Result) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Write{Buf: buf}), f)
}

// FlushBind flushes the write side and passes the completed Result to f.
// Fuses Perform(Flush{}) + Bind.
func FlushBind[B any](f func(Result) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Flush{}), f)
}

// CloseBind closes the write side and passes the completed Result to f.
// Fuses Perform(Close{}) + Bind.
func CloseBind[B any](f func(Result) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Close{}), f)
}

// CloseDone closes the write side and returns a, discarding the close
// outcome. Use CloseBind when the close error matters.
// Fuses Perform(Close{}) + Then + Pure.
func CloseDone[A any](a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Close{}), kont.Pure(a))
}

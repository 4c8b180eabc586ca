// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"math/rand"
	"reflect"
)

// testing/quick integration: each of these slice types implements
// quick.Generator, so a property function can take one as an argument and
// hand it straight to NewReader/NewWriter. quick supplies the source and
// size; shrinking stays with [GeneratedScript.Shrink] for engines that
// minimize.

// quickOps draws 0..size elements under the given strategy.
func quickOps(r *rand.Rand, size int, errs ErrorStrategy) []Op {
	n := r.Intn(size + 1)
	ops := make([]Op, 0, n)
	for range n {
		ops = append(ops, genElem(r, defaultMaxBytes, errs))
	}
	return ops
}

// PartialOps generates scripts of Limited ops only (no errors).
type PartialOps []Op

// Generate implements quick.Generator.
func (PartialOps) Generate(r *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(PartialOps(quickOps(r, size, NoErrors())))
}

// InterruptedOps generates scripts where each element is ErrInterrupted
// 20% of the time.
type InterruptedOps []Op

// Generate implements quick.Generator.
func (InterruptedOps) Generate(r *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(InterruptedOps(quickOps(r, size, InterruptedStrategy())))
}

// WouldBlockOps generates scripts where each element is ErrWouldBlock
// 20% of the time.
type WouldBlockOps []Op

// Generate implements quick.Generator.
func (WouldBlockOps) Generate(r *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(WouldBlockOps(quickOps(r, size, WouldBlockStrategy())))
}

// MixedOps generates scripts where each element is ErrInterrupted 10% and
// ErrWouldBlock 10% of the time.
type MixedOps []Op

// Generate implements quick.Generator.
func (MixedOps) Generate(r *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(MixedOps(quickOps(r, size, InterruptedWouldBlockStrategy())))
}

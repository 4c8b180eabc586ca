// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"math/rand"
	"slices"
)

// Generator defaults, matching the op-count scale randomized tests use.
const (
	defaultMaxOps   = 128
	defaultMaxBytes = 128
)

// ErrorStrategy decides, independently per generated element, whether the
// element synthesizes an error and which one. A nil return means no error:
// the element becomes a Limited op. Any function with this signature is a
// valid custom policy; the returned error need not be one of the built-in
// conditions.
type ErrorStrategy func(r *rand.Rand) error

// NoErrors never synthesizes: every element is a Limited op, exercising
// only short-read/short-write behavior.
func NoErrors() ErrorStrategy {
	return func(*rand.Rand) error { return nil }
}

// InterruptedStrategy synthesizes ErrInterrupted 20% of the time.
func InterruptedStrategy() ErrorStrategy {
	return func(r *rand.Rand) error {
		if r.Float64() < 0.2 {
			return ErrInterrupted
		}
		return nil
	}
}

// WouldBlockStrategy synthesizes ErrWouldBlock 20% of the time.
func WouldBlockStrategy() ErrorStrategy {
	return func(r *rand.Rand) error {
		if r.Float64() < 0.2 {
			return ErrWouldBlock
		}
		return nil
	}
}

// InterruptedWouldBlockStrategy synthesizes ErrInterrupted 10% and
// ErrWouldBlock 10% of the time.
func InterruptedWouldBlockStrategy() ErrorStrategy {
	return func(r *rand.Rand) error {
		switch f := r.Float64(); {
		case f < 0.1:
			return ErrInterrupted
		case f < 0.2:
			return ErrWouldBlock
		}
		return nil
	}
}

// Params are the generator inputs. The same Params, including Seed,
// regenerate the same script byte for byte.
type Params struct {
	// Seed drives the deterministic source. Two Generate calls with equal
	// Params produce identical scripts.
	Seed int64
	// MaxOps bounds script length: 0..MaxOps elements.
	// Zero or negative selects the default (128).
	MaxOps int
	// MaxBytes bounds Limited caps: drawn uniformly from [1, MaxBytes].
	// Zero or negative selects the default (128).
	MaxBytes int
	// Errors is consulted once per element; nil behaves as NoErrors.
	Errors ErrorStrategy
}

// GeneratedScript is a generated op sequence together with the parameters
// that produced it, so a failing script can be reported, regenerated, and
// shrunk reproducibly.
type GeneratedScript struct {
	Ops    []Op
	Params Params
}

// Generate produces a script from p.
//
// Limited caps start at 1, never 0: a zero-byte grant would be
// indistinguishable from "no data available", which is a distinct state
// already representable as Fail(ErrWouldBlock), so generating it would make
// ambiguous test inputs.
func Generate(p Params) GeneratedScript {
	r := rand.New(rand.NewSource(p.Seed))
	maxOps := p.MaxOps
	if maxOps <= 0 {
		maxOps = defaultMaxOps
	}
	maxBytes := p.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	errs := p.Errors
	if errs == nil {
		errs = NoErrors()
	}
	n := r.Intn(maxOps + 1)
	ops := make([]Op, 0, n)
	for range n {
		ops = append(ops, genElem(r, maxBytes, errs))
	}
	return GeneratedScript{Ops: ops, Params: p}
}

// genElem draws one element: a synthesized error per the strategy, or a
// Limited op with a cap in [1, maxBytes].
func genElem(r *rand.Rand, maxBytes int, errs ErrorStrategy) Op {
	if err := errs(r); err != nil {
		return Fail(err)
	}
	return Limited(1 + r.Intn(maxBytes))
}

// Shrink returns simpler candidate scripts for minimizing a failure, in
// deterministic order: the empty script, then each half, then variants
// that drop one Fail op or halve one Limited cap. No candidate is longer
// than the receiver, so repeated shrinking converges on the empty script.
func (g GeneratedScript) Shrink() []GeneratedScript {
	if len(g.Ops) == 0 {
		return nil
	}
	var out []GeneratedScript
	emit := func(ops []Op) {
		out = append(out, GeneratedScript{Ops: ops, Params: g.Params})
	}
	emit([]Op{})
	if len(g.Ops) > 1 {
		half := len(g.Ops) / 2
		emit(slices.Clone(g.Ops[:half]))
		emit(slices.Clone(g.Ops[half:]))
	}
	for i, op := range g.Ops {
		switch {
		case op.kind == opFail:
			emit(slices.Concat(g.Ops[:i], g.Ops[i+1:]))
		case op.kind == opLimited && op.limit > 1:
			c := slices.Clone(g.Ops)
			c[i] = Limited(op.limit / 2)
			emit(c)
		}
	}
	return out
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

// decision is the sequencer's verdict for one logical call.
// err == nil: proceed, moving at most n bytes through the inner endpoint.
// err != nil: synthesize err; the inner endpoint is not consulted.
type decision struct {
	n   int
	err error
}

// sequencer is an exclusively-owned FIFO cursor over a script. Each
// decision consumes at most one op from the front; the cursor always
// advances and is never re-queried for the same op. Once the script is
// exhausted every further call proceeds unconstrained (pass-through).
//
// A sequencer belongs to exactly one adapter and is mutated only by that
// adapter's calls, so no locking is needed.
type sequencer struct {
	ops []Op
}

// next pops the front op and converts it into a decision for a call
// requesting up to requested bytes.
func (s *sequencer) next(requested int) decision {
	if len(s.ops) == 0 {
		return decision{n: requested}
	}
	op := s.ops[0]
	s.ops = s.ops[1:]
	switch op.kind {
	case opLimited:
		return decision{n: min(requested, op.limit)}
	case opUnlimited:
		return decision{n: requested}
	default:
		return decision{err: op.err}
	}
}

// nextAny pops the front op for a call that moves no caller-visible bytes
// (flush, close). Limited and Unlimited both mean proceed; only Fail ops
// synthesize.
func (s *sequencer) nextAny() error {
	if len(s.ops) == 0 {
		return nil
	}
	op := s.ops[0]
	s.ops = s.ops[1:]
	if op.kind == opFail {
		return op.err
	}
	return nil
}

// replace installs a new script, discarding any unconsumed ops.
func (s *sequencer) replace(ops []Op) {
	s.ops = ops
}

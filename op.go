// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"fmt"
)

// opKind discriminates the three scripted step shapes.
type opKind uint8

const (
	opLimited opKind = iota
	opUnlimited
	opFail
)

// Op is one scripted step of an endpoint's behavior. Construct ops with
// [Limited], [Unlimited], or [Fail].
type Op struct {
	kind  opKind
	limit int
	err   error
}

// Limited permits at most n bytes to be moved to or from the inner endpoint
// on one call. The effective cap is min(requested, n): a script never grows
// the caller's buffer.
//
// Panics if n <= 0. Zero is reserved: a zero-byte grant would be
// indistinguishable from "no data available", which is already representable
// as Fail(ErrWouldBlock).
func Limited(n int) Op {
	if n <= 0 {
		panic("partio: Limited requires n > 0")
	}
	return Op{kind: opLimited, limit: n}
}

// Unlimited permits the inner endpoint to move as many bytes as it is
// willing to, unconstrained by the script.
func Unlimited() Op {
	return Op{kind: opUnlimited}
}

// Fail synthesizes err for one call without invoking the inner endpoint.
//
// The error is classified with errors.Is: [iox.ErrWouldBlock] and
// [ErrInterrupted] are transient and never reach the inner endpoint; any
// other error is terminal for that call and propagates verbatim. Panics if
// err is nil.
func Fail(err error) Op {
	if err == nil {
		panic("partio: Fail requires a non-nil error")
	}
	return Op{kind: opFail, err: err}
}

// Limit returns the byte cap and true when op is a Limited op.
func (op Op) Limit() (int, bool) {
	return op.limit, op.kind == opLimited
}

// Err returns the synthesized error when op is a Fail op, else nil.
func (op Op) Err() error {
	return op.err
}

// IsUnlimited reports whether op is the Unlimited op.
func (op Op) IsUnlimited() bool {
	return op.kind == opUnlimited
}

// String returns the op in script-literal form, for test failure output.
func (op Op) String() string {
	switch op.kind {
	case opLimited:
		return fmt.Sprintf("Limited(%d)", op.limit)
	case opUnlimited:
		return "Unlimited"
	default:
		return fmt.Sprintf("Fail(%v)", op.err)
	}
}

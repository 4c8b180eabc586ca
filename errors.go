// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio

import (
	"errors"

	"code.hybscloud.com/iox"
)

// partio scripts synthesize two transient conditions. Mental model:
//   - ErrWouldBlock: no progress right now; retry after readiness.
//   - ErrInterrupted: nothing happened; safe to retry immediately.
//
// Both are expected control flow, not failures, and neither ever reaches
// the inner endpoint. Any other scripted error is terminal for that call
// and propagates verbatim.

// ErrInterrupted means "the call was interrupted before moving any bytes".
// Linux analogy: EINTR. Blocking callers are expected to retry immediately;
// the poll adapters absorb it within a single poll attempt.
var ErrInterrupted = errors.New("io: interrupted")

// ErrWouldBlock re-exports iox.ErrWouldBlock so that script literals can
// stay in the partio namespace. See iox for the full retry contract.
var ErrWouldBlock = iox.ErrWouldBlock

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package partio simulates unreliable, partial, and interrupted byte-stream
// endpoints so that stream-processing code can be exercised against realistic
// failure patterns (short reads/writes, transient would-block, transient
// interrupts) without a real flaky transport.
//
// A script is an ordered sequence of [Op] values. Each call on a wrapped
// endpoint consumes at most one op from the front: [Limited] caps the bytes
// the inner endpoint may move, [Unlimited] passes through, and [Fail]
// synthesizes an error without touching the inner endpoint at all. Once the
// script runs out, every further call is pure pass-through.
//
// # Architecture
//
//   - Blocking adapters: [Reader] and [Writer] wrap ordinary [iox.Reader] /
//     [iox.Writer] endpoints. Synthesized [iox.ErrWouldBlock] and
//     [ErrInterrupted] are returned to the caller, who decides when to retry.
//   - Poll adapters: [AsyncReader] and [AsyncWriter] wrap [PollReader] /
//     [PollWriter] endpoints. A scripted would-block is self-waking: the
//     adapter wakes the suspended call itself, since no inner endpoint was
//     invoked to arrange a wake. A scripted interrupt is resolved within the
//     same poll attempt by consuming the next op.
//   - Transport: [Pipe] creates an in-memory poll-based duplex pair backed by
//     bounded lock-free SPSC queues via [code.hybscloud.com/lfq].
//   - Suspension world: stream protocols built on [code.hybscloud.com/kont]
//     perform [Read], [Write], [Flush], and [Close] effects against a
//     [Stream]. [Step] and [Advance] integrate with a proactor loop; [Exec]
//     and [Run] wait past suspension boundaries with adaptive backoff
//     ([iox.Backoff]), re-polling immediately after a self-wake.
//   - Generation: [Generate] produces reproducible random scripts under a
//     pluggable [ErrorStrategy]; [GeneratedScript.Shrink] yields simpler
//     candidates for minimizing failures. [PartialOps], [InterruptedOps],
//     [WouldBlockOps], and [MixedOps] plug directly into testing/quick.
//
// # Example
//
//	src := bytes.NewReader(data)
//	r := partio.NewReader(src, []partio.Op{
//		partio.Limited(3),
//		partio.Fail(partio.ErrWouldBlock),
//		partio.Unlimited(),
//	})
//	// The first read moves at most 3 bytes, the second reports would-block
//	// without touching src, and every read after that passes through.
package partio

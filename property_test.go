// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package partio_test

import (
	"bytes"
	"testing"
	"testing/quick"

	"code.hybscloud.com/partio"
)

// TestPropertyReaderIntegrity proves that for any generated script of caps,
// interrupts, and would-blocks, a retrying reader still observes the inner
// stream's bytes exactly, in order, without loss or duplication.
func TestPropertyReaderIntegrity(t *testing.T) {
	data := []byte("a fixed payload that every generated script must deliver intact")

	property := func(ops partio.MixedOps) bool {
		r := partio.NewReader(bytes.NewReader(data), ops)
		got, err := readAll(r)
		return err == nil && bytes.Equal(got, data)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyWriterIntegrity proves the write-side analog: retried short
// writes under any generated script deliver the payload exactly once.
func TestPropertyWriterIntegrity(t *testing.T) {
	data := []byte("write-side payloads survive partial delivery too")

	property := func(ops partio.InterruptedOps) bool {
		var sink bytes.Buffer
		w := partio.NewWriter(&sink, ops)
		for off, tries := 0, 0; off < len(data); tries++ {
			if tries > 4096 {
				return false
			}
			n, err := w.Write(data[off:])
			off += n
			if err != nil {
				// Scripted conditions are transient here; retry.
				continue
			}
		}
		return bytes.Equal(sink.Bytes(), data)
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyCapsNeverGrow proves no scripted cap ever enlarges a request:
// the inner endpoint sees buffers no bigger than the caller's.
func TestPropertyCapsNeverGrow(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 256)

	property := func(ops partio.PartialOps) bool {
		src := &trackReader{src: bytes.NewReader(data)}
		r := partio.NewReader(src, ops)
		if _, err := readAll(r); err != nil {
			return false
		}
		for _, l := range src.lens {
			if l > 8 { // readAll requests 8 bytes at a time
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyGenerateRoundTrip proves any seed's script regenerates
// identically from its carried params, so failures can be replayed.
func TestPropertyGenerateRoundTrip(t *testing.T) {
	property := func(seed int64, maxOps, maxBytes uint8) bool {
		p := partio.Params{
			Seed:     seed,
			MaxOps:   int(maxOps),
			MaxBytes: int(maxBytes),
			Errors:   partio.InterruptedWouldBlockStrategy(),
		}
		g := partio.Generate(p)
		h := partio.Generate(g.Params)
		if len(g.Ops) != len(h.Ops) {
			return false
		}
		for i := range g.Ops {
			if g.Ops[i] != h.Ops[i] {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyShrinkNeverLonger proves the shrinking law over arbitrary
// generated scripts.
func TestPropertyShrinkNeverLonger(t *testing.T) {
	property := func(seed int64) bool {
		g := partio.Generate(partio.Params{
			Seed:   seed,
			MaxOps: 32,
			Errors: partio.InterruptedWouldBlockStrategy(),
		})
		for _, c := range g.Shrink() {
			if len(c.Ops) > len(g.Ops) {
				return false
			}
		}
		return true
	}

	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

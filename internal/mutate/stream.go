package mutate

import (
	"github.com/robin3773/isa-mutator/internal/bitcodec"
	"github.com/robin3773/isa-mutator/internal/debuglog"
	"github.com/robin3773/isa-mutator/internal/feedback"
	"github.com/robin3773/isa-mutator/internal/isa"
	"github.com/robin3773/isa-mutator/internal/mutatorconfig"
	"github.com/robin3773/isa-mutator/internal/prng"
)

// minRounds/maxRounds bound the per-call round count drawn from the PRNG
// (spec.md §4.I step 2: "small, e.g. 1-8"). Open question resolved in
// DESIGN.md: uniform over [1, 8].
const (
	minRounds = 1
	maxRounds = 8
)

// Stream produces a mutated copy of in into out, in place, following
// spec.md §4.I. out must have capacity >= max; Stream returns the
// number of bytes written (>= 1, per Testable Property 5 "Buffer
// safety"). fb may be nil (feedback reporting is then skipped); when
// attached, each mutated site's resulting word is reported as one edge
// (spec.md §6 "the feedback adapter is exercised ... on each fuzz call
// when a session is attached").
func Stream(in []byte, out []byte, max int, schema *isa.ISA, cfg *mutatorconfig.Config, rng *prng.State, log *debuglog.Log, fb *feedback.Feedback) int {
	n := len(in)
	limit := n
	if max < limit {
		limit = max
	}
	if limit < 0 {
		limit = 0
	}

	copy(out[:limit], in[:limit])

	if limit == 0 {
		if len(out) > 0 {
			out[0] = 0
		}
		return 1
	}

	rounds := minRounds + int(rng.Intn(maxRounds-minRounds+1))
	for r := 0; r < rounds; r++ {
		i := pickSite(out[:limit], rng)
		if i < 0 {
			continue
		}
		width := applySiteMutation(out[:limit], i, schema, cfg, rng, log)
		if width > 0 {
			reportSiteEdge(fb, out[:limit], i, width)
		}
	}

	return limit
}

// reportSiteEdge reads back the word at a just-mutated site and reports
// it as one coverage edge. A 16-bit compressed site is zero-extended so
// it still lands somewhere in the bitmap's uint32 hash space.
func reportSiteEdge(fb *feedback.Feedback, buf []byte, i, width int) {
	if !fb.Active() {
		return
	}
	if width == 4 {
		fb.ReportEdge(bitcodec.LoadU32(buf, i))
	} else {
		fb.ReportEdge(uint32(bitcodec.LoadU16(buf, i)))
	}
}

// pickSite chooses a 2-byte-aligned offset at random and returns it, or
// -1 when none of the attempts lands on an offset where siteWidth finds a
// site. Offsets are drawn uniformly over the buffer's even offsets and
// retried a bounded number of times rather than scanned, to
// keep PRNG consumption close to Testable Property 6 ("Determinism")
// without biasing toward the front of the buffer.
func pickSite(buf []byte, rng *prng.State) int {
	const attempts = 8
	if len(buf) == 0 {
		return -1
	}
	for a := 0; a < attempts; a++ {
		i := 2 * int(rng.Intn(uint32((len(buf)+1)/2)))
		if siteWidth(buf, i) > 0 {
			return i
		}
	}
	return -1
}

// siteWidth reports the aligned site width available at offset i: 4 when
// buf[i] marks a standard 32-bit RISC-V word (low two bits set) and the
// full word fits; 2 when a 16-bit site fits (compressed support is
// decided by the caller, since siteWidth itself doesn't know enable_c).
func siteWidth(buf []byte, i int) int {
	if i < 0 || i >= len(buf) {
		return 0
	}
	if buf[i]&0b11 == 0b11 && i+4 <= len(buf) {
		return 4
	}
	if i+2 <= len(buf) {
		return 2
	}
	return 0
}

// applySiteMutation mutates the site at i and returns the width actually
// mutated (4 or 2), or 0 if no mutation was applied (e.g. a compressed
// site when EnableC is false).
func applySiteMutation(buf []byte, i int, schema *isa.ISA, cfg *mutatorconfig.Config, rng *prng.State, log *debuglog.Log) int {
	width := siteWidth(buf, i)
	if width == 4 {
		applyStrategy(buf, i, 4, schema, cfg, rng, log)
		return 4
	}
	if width == 2 {
		if !cfg.EnableC {
			return 0
		}
		applyStrategy(buf, i, 2, schema, cfg, rng, log)
		return 2
	}
	return 0
}

// applyStrategy dispatches per-site mutation per Config.Strategy
// (spec.md §4.I step 3b). AUTO is treated identically to HYBRID
// (spec.md §9, "do not invent semantics").
func applyStrategy(buf []byte, i, width int, schema *isa.ISA, cfg *mutatorconfig.Config, rng *prng.State, log *debuglog.Log) {
	strategy := cfg.Strategy
	if strategy == mutatorconfig.AUTO {
		strategy = mutatorconfig.HYBRID
	}

	useIR := false
	switch strategy {
	case mutatorconfig.IR:
		useIR = true
	case mutatorconfig.HYBRID:
		useIR = rng.Bool(cfg.DecodeProb)
	case mutatorconfig.RAW:
		useIR = false
	}

	if !useIR {
		rawByteXOR(buf, i, rng)
		return
	}

	if width == 4 {
		MutateInstruction(buf, i, schema, cfg, rng, log)
	} else {
		MutateCompressed(buf, i, rng)
	}
}

// rawByteXOR is the RAW strategy: a random single-byte XOR at i
// (spec.md §4.I step 3b).
func rawByteXOR(buf []byte, i int, rng *prng.State) {
	buf[i] ^= byte(rng.Intn(256))
}

package resteg

import (
	"github.com/teenjuna/resteg/internal/frame"
	"github.com/teenjuna/resteg/placement"
)

// MaxPayload returns the largest payload in bytes a carrier of the given geometry can hold at the
// given strength. One bit is embedded per channel sample, so the carrier holds
// ⌊samples / (8·N)⌋ codewords; the leading ones carry the length header and every other one
// carries K payload bytes.
//
// Returns 0 if the geometry or strength is invalid, or if the carrier can't even hold the header.
func MaxPayload(g placement.Geometry, s Strength) int {
	if g.Validate() != nil || s.n < 1 || s.k < 1 || s.k >= s.n {
		return 0
	}
	data := codewords(g.Samples(), s.n) - frame.HeaderChunks(s.k)
	return max(data, 0) * s.k
}

// codewords returns the number of n-byte codewords that fit in the LSBs of samples.
func codewords(samples, n int) int {
	return samples / (n * 8)
}

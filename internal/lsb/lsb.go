package lsb

import (
	"github.com/teenjuna/resteg/placement"
)

// Embed writes bit i of the packed, MSB-first bit string into the least significant bit of the
// sample at plan[i]. Only those bits change; the upper 7 bits of every sample, and every sample not
// in the plan, are left as is.
//
// The plan must not be longer than the bit string.
func Embed(samples []byte, channels int, plan []placement.Position, bits []byte) {
	for i, p := range plan {
		s := p.Sample(channels)
		samples[s] = samples[s]&^1 | Bit(bits, i)
	}
}

// Extract reads the least significant bit of the sample at each planned position and returns them
// packed MSB-first in plan order.
func Extract(samples []byte, channels int, plan []placement.Position) []byte {
	bits := make([]byte, (len(plan)+7)/8)
	for i, p := range plan {
		SetBit(bits, i, samples[p.Sample(channels)]&1)
	}
	return bits
}

// Bit returns bit i of a packed, MSB-first bit string as 0 or 1.
func Bit(bits []byte, i int) byte {
	return bits[i/8] >> (7 - i%8) & 1
}

// SetBit sets bit i of a packed, MSB-first bit string to the low bit of v.
func SetBit(bits []byte, i int, v byte) {
	mask := byte(1) << (7 - i%8)
	if v&1 == 1 {
		bits[i/8] |= mask
	} else {
		bits[i/8] &^= mask
	}
}

// This package contains a systematic Reed-Solomon [Code] over GF(256).
package rs

import (
	"errors"
	"fmt"

	"rsc.io/qr/gf256"
)

// MaxN is the largest codeword size supported by GF(256).
const MaxN = 255

var (
	// ErrInvalidParameters is returned by [New] for an (n, k) pair that can't form a code.
	ErrInvalidParameters = errors.New("invalid code parameters")
	// ErrUncorrectable is returned by [Code.Decode] when a codeword has more errors than the code
	// can correct.
	ErrUncorrectable = errors.New("codeword is uncorrectable")
	// ErrInvalidLength is returned when the input of [Code.Encode] or [Code.Decode] has the wrong
	// size.
	ErrInvalidLength = errors.New("invalid input length")
)

// field is x^8 + x^4 + x^3 + x^2 + 1 with generator 2. Its tables are built once and only read
// afterwards, so it is shared by every code and goroutine.
var field = gf256.NewField(0x11d, 2)

// Code is a systematic (n, k) Reed-Solomon code. Codewords are n bytes long, the first k of which
// are the data verbatim, followed by n-k parity bytes. Up to (n-k)/2 byte errors can be corrected.
//
// Encode is not safe for concurrent use; use [Code.Derive] to get an instance per goroutine.
// Decode only reads the shared field tables and may be called concurrently.
type Code struct {
	n   int
	k   int
	enc *gf256.RSEncoder
}

// New returns a code producing n-byte codewords with k data bytes.
//
// Returns [ErrInvalidParameters] unless 0 < k < n <= [MaxN].
func New(n, k int) (*Code, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k can't be < 1, got %d", ErrInvalidParameters, k)
	}
	if n <= k {
		return nil, fmt.Errorf("%w: n can't be <= k, got n=%d k=%d", ErrInvalidParameters, n, k)
	}
	if n > MaxN {
		return nil, fmt.Errorf("%w: n can't be > %d, got %d", ErrInvalidParameters, MaxN, n)
	}
	return &Code{
		n:   n,
		k:   k,
		enc: gf256.NewRSEncoder(field, n-k),
	}, nil
}

// N returns the codeword size.
func (c *Code) N() int {
	return c.n
}

// K returns the number of data bytes per codeword.
func (c *Code) K() int {
	return c.k
}

// T returns the number of byte errors a codeword can be corrected from.
func (c *Code) T() int {
	return (c.n - c.k) / 2
}

// Derive returns a new Code with the same parameters.
//
// The returned code maintains its own encoder state independent of the original.
func (c *Code) Derive() *Code {
	return &Code{
		n:   c.n,
		k:   c.k,
		enc: gf256.NewRSEncoder(field, c.n-c.k),
	}
}

// Encode returns the codeword of k data bytes. The data slice is not retained.
func (c *Code) Encode(data []byte) ([]byte, error) {
	if len(data) != c.k {
		return nil, fmt.Errorf("%w: data is %d bytes, want %d", ErrInvalidLength, len(data), c.k)
	}

	codeword := make([]byte, c.n)
	copy(codeword, data)
	c.enc.ECC(codeword[:c.k], codeword[c.k:])

	return codeword, nil
}

func (c *Code) String() string {
	return fmt.Sprintf("RS(%d,%d)", c.n, c.k)
}

package rs

import (
	"fmt"
	"slices"
)

// Decode corrects a possibly corrupted codeword and returns its k data bytes along with the number
// of byte errors that were corrected. The codeword slice is not modified.
//
// Returns [ErrUncorrectable] if the codeword has more than [Code.T] errors. A result is never
// guessed past that bound.
func (c *Code) Decode(codeword []byte) ([]byte, int, error) {
	if len(codeword) != c.n {
		return nil, 0, fmt.Errorf(
			"%w: codeword is %d bytes, want %d", ErrInvalidLength, len(codeword), c.n,
		)
	}

	synd, ok := syndromes(codeword, c.n-c.k)
	if ok {
		return slices.Clone(codeword[:c.k]), 0, nil
	}

	locator := berlekampMassey(synd)
	errs := len(locator) - 1
	if errs > c.T() {
		return nil, 0, ErrUncorrectable
	}

	positions := chien(locator, c.n)
	if len(positions) != errs {
		// Some roots lie outside of the codeword, which only happens when there are more errors
		// than the locator could describe.
		return nil, 0, ErrUncorrectable
	}

	fixed := slices.Clone(codeword)
	if !forney(fixed, synd, locator, positions) {
		return nil, 0, ErrUncorrectable
	}

	if _, ok := syndromes(fixed, c.n-c.k); !ok {
		return nil, 0, ErrUncorrectable
	}

	return fixed[:c.k:c.k], errs, nil
}

// syndromes evaluates the received polynomial at α^0 … α^(count-1). The codeword's first byte is
// the highest degree coefficient. ok reports whether all syndromes are zero.
func syndromes(codeword []byte, count int) (synd []byte, ok bool) {
	synd = make([]byte, count)
	ok = true
	for i := range synd {
		x := pow(i)
		var s byte
		for _, b := range codeword {
			s = field.Mul(s, x) ^ b
		}
		synd[i] = s
		if s != 0 {
			ok = false
		}
	}
	return synd, ok
}

// berlekampMassey returns the error locator polynomial for the syndromes, lowest degree first,
// trimmed so that its length is its degree plus one.
func berlekampMassey(synd []byte) []byte {
	var (
		cur  = make([]byte, len(synd)+1)
		prev = make([]byte, len(synd)+1)
		tmp  = make([]byte, len(synd)+1)
		l    = 0
		m    = 1
		b    = byte(1)
	)
	cur[0] = 1
	prev[0] = 1

	for n := range synd {
		d := synd[n]
		for i := 1; i <= l; i++ {
			d ^= field.Mul(cur[i], synd[n-i])
		}
		if d == 0 {
			m++
			continue
		}

		coef := field.Mul(d, field.Inv(b))
		if 2*l <= n {
			copy(tmp, cur)
			for i := 0; i+m < len(cur); i++ {
				cur[i+m] ^= field.Mul(coef, prev[i])
			}
			l = n + 1 - l
			prev, tmp = tmp, prev
			b = d
			m = 1
		} else {
			for i := 0; i+m < len(cur); i++ {
				cur[i+m] ^= field.Mul(coef, prev[i])
			}
			m++
		}
	}

	return cur[:l+1]
}

// chien returns the degrees of the codeword positions whose inverse locator value is a root of the
// locator polynomial. Only the n positions of a (possibly shortened) codeword are searched.
func chien(locator []byte, n int) []int {
	positions := make([]int, 0, len(locator)-1)
	for e := range n {
		if eval(locator, pow(-e)) == 0 {
			positions = append(positions, e)
		}
	}
	return positions
}

// forney computes the error magnitudes and applies them to the codeword in place. It reports false
// if a magnitude can't be determined.
func forney(codeword, synd, locator []byte, positions []int) bool {
	// Ω(x) = S(x)·Λ(x) mod x^len(synd)
	omega := make([]byte, len(synd))
	for i := range omega {
		var v byte
		for j := 0; j <= i && j < len(locator); j++ {
			v ^= field.Mul(locator[j], synd[i-j])
		}
		omega[i] = v
	}

	// Λ'(x); odd powers only in characteristic 2.
	deriv := make([]byte, max(len(locator)-1, 1))
	for i := 1; i < len(locator); i += 2 {
		deriv[i-1] = locator[i]
	}

	for _, e := range positions {
		xinv := pow(-e)
		den := eval(deriv, xinv)
		if den == 0 {
			return false
		}
		mag := field.Mul(pow(e), field.Mul(eval(omega, xinv), field.Inv(den)))
		if mag == 0 {
			return false
		}
		codeword[len(codeword)-1-e] ^= mag
	}

	return true
}

// eval evaluates a polynomial stored lowest degree first.
func eval(poly []byte, x byte) byte {
	var v byte
	for i := len(poly) - 1; i >= 0; i-- {
		v = field.Mul(v, x) ^ poly[i]
	}
	return v
}

// pow returns α^e for any integer e.
func pow(e int) byte {
	e %= 255
	if e < 0 {
		e += 255
	}
	return field.Exp(e)
}

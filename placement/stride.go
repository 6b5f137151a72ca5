package placement

import "math"

var _ Strategy = (*StrideStrategy)(nil)

// StrideStrategy visits samples with a fixed stride close to S/φ, where S is the number of samples
// and φ the golden ratio. The stride is coprime with S, so the visit order is a permutation of all
// samples, and any run of consecutive positions is spread evenly over the whole carrier.
type StrideStrategy struct{}

// Stride returns the default placement strategy.
func Stride() *StrideStrategy {
	return &StrideStrategy{}
}

func (s *StrideStrategy) Name() string {
	return "stride"
}

func (s *StrideStrategy) Plan(g Geometry, bits int) ([]Position, error) {
	if err := check(g, bits); err != nil {
		return nil, err
	}

	var (
		samples = g.Samples()
		step    = stride(samples)
		sample  = samples / 2
		plan    = make([]Position, bits)
	)
	for i := range plan {
		plan[i] = Position{
			Pixel:   sample / g.Channels,
			Channel: sample % g.Channels,
		}
		sample = (sample + step) % samples
	}

	return plan, nil
}

// stride returns the integer nearest to n/φ that is coprime with n.
func stride(n int) int {
	if n < 3 {
		return 1
	}
	base := int(math.Round(float64(n) / math.Phi))
	for d := 0; ; d++ {
		for _, c := range []int{base + d, base - d} {
			if c >= 1 && c < n && gcd(c, n) == 1 {
				return c
			}
		}
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

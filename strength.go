package resteg

import (
	"fmt"
	"strings"
)

// Strength selects the Reed-Solomon parameters: codewords of N bytes carrying K data bytes, able
// to correct (N-K)/2 corrupted bytes each. Encoder and decoder must use the same strength; it is
// not recorded in the carrier.
type Strength struct {
	name string
	n    int
	k    int
}

var (
	// Light uses RS(15,11): 2 correctable bytes per 15, highest capacity.
	Light = Strength{name: "light", n: 15, k: 11}
	// Standard uses RS(255,223): 16 correctable bytes per 255. This is the default.
	Standard = Strength{name: "standard", n: 255, k: 223}
	// Strong uses RS(60,20): 20 correctable bytes per 60, a third of the capacity of the raw LSBs.
	Strong = Strength{name: "strong", n: 60, k: 20}
)

// Custom returns a strength with arbitrary parameters. They are validated by [New].
func Custom(n, k int) Strength {
	return Strength{name: "custom", n: n, k: k}
}

// ParseStrength returns the preset with the given name.
func ParseStrength(name string) (Strength, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case Light.name:
		return Light, nil
	case "", Standard.name:
		return Standard, nil
	case Strong.name:
		return Strong, nil
	default:
		return Strength{}, fmt.Errorf("%w: unknown strength %q", ErrConfiguration, name)
	}
}

func (s Strength) Name() string {
	return s.name
}

func (s Strength) N() int {
	return s.n
}

func (s Strength) K() int {
	return s.k
}

func (s Strength) String() string {
	return fmt.Sprintf("%s RS(%d,%d)", s.name, s.n, s.k)
}

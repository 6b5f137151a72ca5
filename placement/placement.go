// This package contains the main [Strategy] interface and several implementations that decide
// which carrier samples receive embedded bits.
package placement

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidGeometry is returned when the carrier geometry has a non-positive dimension.
	ErrInvalidGeometry = errors.New("invalid carrier geometry")
	// ErrInsufficientSamples is returned when more bits are requested than the carrier has samples.
	ErrInsufficientSamples = errors.New("not enough carrier samples")
)

// Geometry describes a carrier of Width×Height pixels with Channels 8-bit samples per pixel.
type Geometry struct {
	Width    int
	Height   int
	Channels int
}

// Pixels returns the number of pixels of the carrier.
func (g Geometry) Pixels() int {
	return g.Width * g.Height
}

// Samples returns the number of channel samples of the carrier.
func (g Geometry) Samples() int {
	return g.Width * g.Height * g.Channels
}

func (g Geometry) Validate() error {
	if g.Width < 1 || g.Height < 1 || g.Channels < 1 {
		return fmt.Errorf(
			"%w: %dx%d with %d channels", ErrInvalidGeometry, g.Width, g.Height, g.Channels,
		)
	}
	return nil
}

// Position addresses the least significant bit of one channel sample.
type Position struct {
	Pixel   int
	Channel int
}

// Sample returns the index of the addressed sample in a row-major buffer.
func (p Position) Sample(channels int) int {
	return p.Pixel*channels + p.Channel
}

// Strategy computes placement plans.
//
// A plan is a deterministic function of the geometry and the number of bits only, so a decoder
// regenerates it without any side channel. Implementations must guarantee that:
//   - no position is repeated and every position lies within the carrier;
//   - Plan(g, m) is a prefix of Plan(g, n) for every m <= n, which lets a decoder read the leading
//     bits before it knows how many bits were embedded.
//
// Implementations are stateless and safe for concurrent use.
type Strategy interface {
	// Plan returns bits positions for the carrier geometry.
	//
	// Returns [ErrInvalidGeometry] or [ErrInsufficientSamples] if the plan can't be built.
	Plan(g Geometry, bits int) ([]Position, error)
	// Name returns the name accepted by [Parse].
	Name() string
}

// Parse returns the strategy with the given name.
func Parse(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "stride":
		return Stride(), nil
	case "spiral":
		return Spiral(), nil
	default:
		return nil, fmt.Errorf("unknown placement strategy %q", name)
	}
}

func check(g Geometry, bits int) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if bits < 0 {
		return fmt.Errorf("bits can't be < 0, got %d", bits)
	}
	if bits > g.Samples() {
		return fmt.Errorf(
			"%w: %d bits requested, carrier has %d samples",
			ErrInsufficientSamples, bits, g.Samples(),
		)
	}
	return nil
}

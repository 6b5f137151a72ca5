package resteg

import (
	"fmt"

	"github.com/teenjuna/resteg/placement"
)

// Carrier is a flat buffer of 8-bit channel samples of a Width×Height image, stored row-major with
// Channels samples per pixel. The sample of channel ch in pixel p is Samples[p*Channels+ch].
//
// The caller owns the buffer. [Codec.Encode] mutates it in place, [Codec.Decode] only reads it.
type Carrier struct {
	Width    int
	Height   int
	Channels int
	Samples  []byte
}

// NewCarrier returns a carrier with all samples set to zero.
func NewCarrier(width, height, channels int) Carrier {
	return Carrier{
		Width:    width,
		Height:   height,
		Channels: channels,
		Samples:  make([]byte, max(width*height*channels, 0)),
	}
}

func (c Carrier) Geometry() placement.Geometry {
	return placement.Geometry{
		Width:    c.Width,
		Height:   c.Height,
		Channels: c.Channels,
	}
}

// Validate returns [ErrInvalidCarrier] if the geometry is not positive or doesn't match the number
// of samples.
func (c Carrier) Validate() error {
	if err := c.Geometry().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCarrier, err)
	}
	if want := c.Geometry().Samples(); len(c.Samples) != want {
		return fmt.Errorf(
			"%w: %d samples, want %d for %dx%dx%d",
			ErrInvalidCarrier, len(c.Samples), want, c.Width, c.Height, c.Channels,
		)
	}
	return nil
}

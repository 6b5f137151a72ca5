// Package resteg hides byte payloads in the least significant bits of raw image samples and
// recovers them despite partial corruption of the carrier.
//
// A payload is framed with a length header, cut into chunks and turned into Reed-Solomon
// codewords (see package rs). The codeword bits are written along a placement plan (see package
// placement) that spreads them over the whole carrier and that the decoder regenerates from the
// carrier geometry alone. Only the lowest bit of planned samples changes.
//
//	carrier := resteg.Carrier{Width: w, Height: h, Channels: 3, Samples: pix}
//	codec, err := resteg.New(func(c *resteg.Config) {
//		c.Strength(resteg.Light)
//	})
//	...
//	err = codec.Encode(carrier, []byte("HELLO"))
//	...
//	rec, err := codec.Decode(carrier)
//
// Image files are not handled here: the caller decodes them into samples and encodes the mutated
// samples back, using a lossless format.
//
// Hidden payloads are not encrypted.
package resteg

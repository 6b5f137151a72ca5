// This package contains a [Codec] that compresses the output of another codec with zstd.
package zstd

import (
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/teenjuna/resteg/codec"
)

var _ codec.Codec[any] = (*Codec[any])(nil)

// Codec wraps another codec. Compressing before embedding lets larger messages fit a carrier, at
// the cost of losing the whole message if the compressed bytes can't be recovered.
type Codec[Message any] struct {
	inner codec.Codec[Message]
	enc   *zstd.Encoder
	dec   *zstd.Decoder
}

func New[Message any](inner codec.Codec[Message]) *Codec[Message] {
	if inner == nil {
		panic("codec can't be nil")
	}
	return &Codec[Message]{
		inner: inner,
		enc:   mustNewEncoder(),
		dec:   mustNewDecoder(),
	}
}

func (c *Codec[Message]) Encode(m Message) ([]byte, error) {
	data, err := c.inner.Encode(m)
	if err != nil {
		return nil, err
	}
	return c.enc.EncodeAll(data, nil), nil
}

func (c *Codec[Message]) Decode(data []byte) (Message, error) {
	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		var m Message
		return m, fmt.Errorf("decompress: %w", err)
	}
	return c.inner.Decode(raw)
}

func (c *Codec[Message]) Derive() codec.Codec[Message] {
	return New(c.inner.Derive())
}

func mustNewEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

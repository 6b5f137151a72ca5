package gob

import (
	"bytes"
	"encoding/gob"

	"github.com/teenjuna/resteg/codec"
)

var _ codec.Codec[any] = (*Codec[any])(nil)

type Codec[Message any] struct {
	buf *bytes.Buffer
}

func New[Message any]() *Codec[Message] {
	return &Codec[Message]{
		buf: new(bytes.Buffer),
	}
}

func (c *Codec[Message]) Encode(m Message) ([]byte, error) {
	c.buf.Reset()
	enc := gob.NewEncoder(c.buf)

	if err := enc.Encode(&m); err != nil {
		return nil, err
	}

	res := c.buf.Bytes()
	out := make([]byte, len(res))
	copy(out, res)

	return out, nil
}

func (c *Codec[Message]) Decode(data []byte) (Message, error) {
	var m Message
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return m, err
	}
	return m, nil
}

func (c *Codec[Message]) Derive() codec.Codec[Message] {
	return New[Message]()
}

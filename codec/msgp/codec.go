package msgp

import (
	"github.com/tinylib/msgp/msgp"

	"github.com/teenjuna/resteg/codec"
)

var _ codec.Codec[msgp.Raw] = (*Codec[msgp.Raw, *msgp.Raw])(nil)

type Codec[Message any, MessagePtr msgpable[Message]] struct {
	buf []byte
}

func New[Message any, MessagePtr msgpable[Message]]() *Codec[Message, MessagePtr] {
	return &Codec[Message, MessagePtr]{
		buf: make([]byte, 0),
	}
}

func (c *Codec[Message, MessagePtr]) Encode(m Message) ([]byte, error) {
	b, err := MessagePtr(&m).MarshalMsg(c.buf[:0])
	if err != nil {
		return nil, err
	}
	c.buf = b

	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}

func (c *Codec[Message, MessagePtr]) Decode(data []byte) (Message, error) {
	var m Message
	if _, err := MessagePtr(&m).UnmarshalMsg(data); err != nil {
		return m, err
	}
	return m, nil
}

func (c *Codec[Message, MessagePtr]) Derive() codec.Codec[Message] {
	return New[Message, MessagePtr]()
}

type msgpable[Message any] interface {
	*Message
	msgp.Marshaler
	msgp.Unmarshaler
}

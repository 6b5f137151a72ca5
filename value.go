package resteg

import (
	"fmt"

	"github.com/teenjuna/resteg/codec"
)

// EncodeValue encodes the message with mc and hides the result in the carrier.
func EncodeValue[Message any](
	c *Codec,
	mc codec.Codec[Message],
	carrier Carrier,
	m Message,
) error {
	payload, err := mc.Encode(m)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return c.Encode(carrier, payload)
}

// DecodeValue recovers a message hidden by [EncodeValue].
func DecodeValue[Message any](
	c *Codec,
	mc codec.Codec[Message],
	carrier Carrier,
) (Message, *Recovery, error) {
	var m Message

	rec, err := c.Decode(carrier)
	if err != nil {
		return m, nil, err
	}

	m, err = mc.Decode(rec.Payload)
	if err != nil {
		return m, rec, fmt.Errorf("decode message: %w", err)
	}

	return m, rec, nil
}

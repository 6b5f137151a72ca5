// This package contains the main [Codec] interface and several implementations inside subpackages.
//
// Codecs turn typed messages into payload bytes before they are hidden in a carrier, and back.
package codec

// Codec encodes and decodes messages hidden in carriers.
//
// Implementations are not considered thread-safe and each instance is used by a single goroutine.
type Codec[Message any] interface {
	// Encode serializes a message into a byte slice.
	Encode(m Message) ([]byte, error)
	// Decode deserializes a byte slice into a message.
	Decode(data []byte) (Message, error)
	// Derive returns a new Codec instance with the same settings.
	//
	// The returned codec maintains its own internal state independent of the original.
	Derive() Codec[Message]
}

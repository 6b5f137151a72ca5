// This package splits payloads into fixed-size chunks and joins them back.
//
// A framed payload starts with a [Header] recording the payload length and checksum, zero padded
// to whole chunks, followed by the payload itself with the last chunk zero padded. The header
// always occupies its own chunks, so it can be recovered before any data chunk.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

// HeaderSize is the size of an encoded [Header].
const HeaderSize = 8

var (
	// ErrShortHeader is returned by [ParseHeader] for input shorter than [HeaderSize].
	ErrShortHeader = errors.New("header too short")
	// ErrChecksum is returned by [Verify] when the payload doesn't match the header checksum.
	ErrChecksum = errors.New("payload checksum mismatch")
)

// Header describes the framed payload.
//
// Byte layout:
//
//	0-3: payload length (big-endian uint32)
//	4-7: payload CRC-32 (IEEE, big-endian)
type Header struct {
	Length   int
	Checksum uint32
}

func NewHeader(payload []byte) Header {
	return Header{
		Length:   len(payload),
		Checksum: crc32.ChecksumIEEE(payload),
	}
}

func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(b[0:4], uint32(h.Length))
	binary.BigEndian.PutUint32(b[4:8], h.Checksum)
	return b
}

func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	return Header{
		Length:   int(binary.BigEndian.Uint32(b[0:4])),
		Checksum: binary.BigEndian.Uint32(b[4:8]),
	}, nil
}

// HeaderChunks returns the number of k-byte chunks taken by the header.
func HeaderChunks(k int) int {
	return ceil(HeaderSize, k)
}

// DataChunks returns the number of k-byte chunks taken by a payload of the given length.
func DataChunks(length, k int) int {
	return ceil(length, k)
}

// Chunks returns the total number of k-byte chunks of a framed payload of the given length.
func Chunks(length, k int) int {
	return HeaderChunks(k) + DataChunks(length, k)
}

// Split frames the payload into k-byte chunks: header chunks first, then data chunks. The payload
// is copied, never aliased.
func Split(payload []byte, k int) [][]byte {
	var (
		header = NewHeader(payload).Bytes()
		chunks = make([][]byte, 0, Chunks(len(payload), k))
	)
	chunks = appendChunks(chunks, header, k)
	chunks = appendChunks(chunks, payload, k)
	return chunks
}

// Join concatenates data chunks and truncates the result to length, dropping the padding of the
// last chunk.
func Join(chunks [][]byte, length int) []byte {
	payload := make([]byte, 0, length)
	for _, chunk := range chunks {
		if len(payload) >= length {
			break
		}
		payload = append(payload, chunk[:min(len(chunk), length-len(payload))]...)
	}
	return payload
}

// JoinHeader concatenates header chunks and parses the header.
func JoinHeader(chunks [][]byte) (Header, error) {
	return ParseHeader(Join(chunks, HeaderSize))
}

// Verify checks the payload against the header.
func Verify(h Header, payload []byte) error {
	if len(payload) != h.Length {
		return fmt.Errorf("%w: length %d, want %d", ErrChecksum, len(payload), h.Length)
	}
	if sum := crc32.ChecksumIEEE(payload); sum != h.Checksum {
		return fmt.Errorf("%w: crc %08x, want %08x", ErrChecksum, sum, h.Checksum)
	}
	return nil
}

func appendChunks(chunks [][]byte, data []byte, k int) [][]byte {
	for off := 0; off < len(data); off += k {
		chunk := make([]byte, k)
		copy(chunk, data[off:])
		chunks = append(chunks, chunk)
	}
	return chunks
}

func ceil(n, k int) int {
	return (n + k - 1) / k
}

package resteg

import (
	"errors"
	"fmt"

	"github.com/teenjuna/resteg/internal/frame"
	"github.com/teenjuna/resteg/rs"
)

var (
	// ErrCapacityExceeded is returned by [Codec.Encode] when the framed payload doesn't fit the
	// carrier. The carrier is left untouched.
	ErrCapacityExceeded = errors.New("payload exceeds carrier capacity")
	// ErrInvalidCarrier is returned when the carrier geometry doesn't match its samples.
	ErrInvalidCarrier = errors.New("invalid carrier")
	// ErrConfiguration is returned by [New] for invalid Reed-Solomon parameters.
	ErrConfiguration = rs.ErrInvalidParameters
	// ErrLengthRecovery matches a [DecodeError] of [StageLength].
	ErrLengthRecovery = errors.New("length header is unrecoverable")
	// ErrDataRecovery matches a [DecodeError] of [StageData].
	ErrDataRecovery = errors.New("payload data is unrecoverable")
	// ErrUncorrectable matches a [DecodeError] caused by a codeword with too many errors.
	ErrUncorrectable = rs.ErrUncorrectable
	// ErrChecksum matches a [DecodeError] of [StageChecksum].
	ErrChecksum = frame.ErrChecksum
)

// Stage is the part of a decode that failed.
type Stage int

const (
	// StageLength is the recovery of the leading length header codewords.
	StageLength Stage = iota + 1
	// StageData is the recovery of the payload codewords.
	StageData
	// StageChecksum is the verification of the recovered payload against the header.
	StageChecksum
)

func (s Stage) String() string {
	switch s {
	case StageLength:
		return "length"
	case StageData:
		return "data"
	case StageChecksum:
		return "checksum"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

func (s Stage) err() error {
	switch s {
	case StageLength:
		return ErrLengthRecovery
	case StageData:
		return ErrDataRecovery
	default:
		return ErrChecksum
	}
}

// DecodeError is returned by [Codec.Decode]. It matches the sentinel error of its stage and its
// cause with [errors.Is].
type DecodeError struct {
	Stage Stage
	// Chunk is the index of the first failed codeword within its stage: among the header codewords
	// for StageLength and among the data codewords for StageData. It is -1 when no single codeword
	// is at fault.
	Chunk int
	// Failed is the number of codewords of the stage that couldn't be recovered.
	Failed int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Chunk < 0 {
		return fmt.Sprintf("decode %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf(
		"decode %s codeword %d (%d failed): %v", e.Stage, e.Chunk, e.Failed, e.Err,
	)
}

func (e *DecodeError) Unwrap() []error {
	return []error{e.Stage.err(), e.Err}
}

package resteg

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/teenjuna/resteg/internal/frame"
	"github.com/teenjuna/resteg/internal/lsb"
	"github.com/teenjuna/resteg/rs"
)

// Codec hides payloads in carriers and recovers them.
//
// A Codec is safe for concurrent use with different carriers.
type Codec struct {
	cfg     *Config
	code    *rs.Code
	metrics *metrics
}

// New creates a codec with the provided configuration functions.
//
// Returns an error matching [ErrConfiguration] if the configured strength is not a valid
// Reed-Solomon code.
func New(configFuncs ...ConfigFunc) (*Codec, error) {
	cfg := newConfig(configFuncs...)

	code, err := rs.New(cfg.strength.n, cfg.strength.k)
	if err != nil {
		return nil, fmt.Errorf("strength %s: %w", cfg.strength.name, err)
	}

	codec := Codec{
		cfg:     cfg,
		code:    code,
		metrics: cfg.prometheus.metrics(),
	}

	return &codec, nil
}

// Strength returns the configured strength.
func (c *Codec) Strength() Strength {
	return c.cfg.strength
}

// Capacity returns the largest payload that fits the carrier, or 0 for an invalid carrier.
func (c *Codec) Capacity(carrier Carrier) int {
	if carrier.Validate() != nil {
		return 0
	}
	return MaxPayload(carrier.Geometry(), c.cfg.strength)
}

// Encode hides the payload in the least significant bits of the carrier samples. The carrier is
// modified in place; the payload is not retained.
//
// The capacity is checked before anything is written: on any error the carrier is left untouched.
// Returns [ErrCapacityExceeded] if the framed payload doesn't fit and [ErrInvalidCarrier] if the
// carrier is malformed.
func (c *Codec) Encode(carrier Carrier, payload []byte) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(opEncode, time.Since(start).Seconds(), err)
	}()

	if err := carrier.Validate(); err != nil {
		return err
	}

	var (
		g         = carrier.Geometry()
		n         = c.code.N()
		k         = c.code.K()
		chunks    = frame.Chunks(len(payload), k)
		available = codewords(g.Samples(), n)
	)
	if chunks > available || uint64(len(payload)) > math.MaxUint32 {
		c.metrics.capacityExceeded.Inc()
		return fmt.Errorf(
			"%w: %d bytes need %d codewords, carrier holds %d (max payload %d bytes)",
			ErrCapacityExceeded, len(payload), chunks, available, MaxPayload(g, c.cfg.strength),
		)
	}

	words, err := c.encodeChunks(frame.Split(payload, k))
	if err != nil {
		return fmt.Errorf("encode codewords: %w", err)
	}

	plan, err := c.cfg.placement.Plan(g, chunks*n*8)
	if err != nil {
		return fmt.Errorf("plan placement: %w", err)
	}

	lsb.Embed(carrier.Samples, g.Channels, plan, slices.Concat(words...))
	c.metrics.codewords.WithLabelValues(opEncode).Add(float64(chunks))

	c.cfg.logger.Debug("payload encoded",
		slog.Int("bytes", len(payload)),
		slog.Int("codewords", chunks),
		slog.String("strength", c.cfg.strength.String()),
		slog.String("placement", c.cfg.placement.Name()),
	)

	return nil
}

// Recovery is the result of a successful [Codec.Decode].
type Recovery struct {
	// Payload is the recovered payload.
	Payload []byte
	// Corrected is the total number of corrupted bytes that were corrected.
	Corrected int
	// Codewords holds the number of bytes corrected in each codeword, header codewords first.
	Codewords []int
}

// Decode recovers the payload hidden in the carrier. The carrier is not modified.
//
// Failures are reported as a [*DecodeError] telling which stage and codeword failed: the length
// header ([ErrLengthRecovery]), a data codeword ([ErrDataRecovery] and [ErrUncorrectable]) or the
// payload checksum ([ErrChecksum]). Returns [ErrInvalidCarrier] if the carrier is malformed.
func (c *Codec) Decode(carrier Carrier) (rec *Recovery, err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(opDecode, time.Since(start).Seconds(), err)
	}()

	if err := carrier.Validate(); err != nil {
		return nil, err
	}

	var (
		g         = carrier.Geometry()
		n         = c.code.N()
		k         = c.code.K()
		available = codewords(g.Samples(), n)
		hc        = frame.HeaderChunks(k)
	)
	if hc > available {
		return nil, &DecodeError{
			Stage: StageLength,
			Chunk: -1,
			Err: fmt.Errorf(
				"carrier holds %d codewords, header needs %d", available, hc,
			),
		}
	}

	plan, err := c.cfg.placement.Plan(g, hc*n*8)
	if err != nil {
		return nil, fmt.Errorf("plan placement: %w", err)
	}

	headerWords := split(lsb.Extract(carrier.Samples, g.Channels, plan), n)
	headerChunks, headerCorrected, err := c.decodeChunks(headerWords, StageLength)
	if err != nil {
		return nil, err
	}

	header, err := frame.JoinHeader(headerChunks)
	if err != nil {
		return nil, &DecodeError{Stage: StageLength, Chunk: -1, Err: err}
	}

	dc := frame.DataChunks(header.Length, k)
	if hc+dc > available {
		return nil, &DecodeError{
			Stage: StageLength,
			Chunk: -1,
			Err: fmt.Errorf(
				"recorded length %d exceeds carrier capacity %d",
				header.Length, MaxPayload(g, c.cfg.strength),
			),
		}
	}

	plan, err = c.cfg.placement.Plan(g, (hc+dc)*n*8)
	if err != nil {
		return nil, fmt.Errorf("plan placement: %w", err)
	}

	dataWords := split(lsb.Extract(carrier.Samples, g.Channels, plan[hc*n*8:]), n)
	dataChunks, dataCorrected, err := c.decodeChunks(dataWords, StageData)
	if err != nil {
		return nil, err
	}

	payload := frame.Join(dataChunks, header.Length)
	if err := frame.Verify(header, payload); err != nil {
		c.cfg.logger.Warn("payload checksum mismatch", slog.Int("bytes", header.Length))
		return nil, &DecodeError{Stage: StageChecksum, Chunk: -1, Err: err}
	}

	rec = &Recovery{
		Payload:   payload,
		Codewords: slices.Concat(headerCorrected, dataCorrected),
	}
	for _, corrected := range rec.Codewords {
		rec.Corrected += corrected
	}

	c.metrics.codewords.WithLabelValues(opDecode).Add(float64(hc + dc))
	c.metrics.errorsCorrected.Add(float64(rec.Corrected))

	c.cfg.logger.Debug("payload decoded",
		slog.Int("bytes", len(payload)),
		slog.Int("codewords", hc+dc),
		slog.Int("corrected", rec.Corrected),
		slog.String("strength", c.cfg.strength.String()),
		slog.String("placement", c.cfg.placement.Name()),
	)

	return rec, nil
}

// Encode hides the payload in the carrier using a codec of the given strength and default
// settings otherwise.
func Encode(carrier Carrier, payload []byte, strength Strength) error {
	codec, err := New(func(c *Config) { c.Strength(strength) })
	if err != nil {
		return err
	}
	return codec.Encode(carrier, payload)
}

// Decode recovers a payload hidden by [Encode] with the same strength.
func Decode(carrier Carrier, strength Strength) ([]byte, error) {
	codec, err := New(func(c *Config) { c.Strength(strength) })
	if err != nil {
		return nil, err
	}
	rec, err := codec.Decode(carrier)
	if err != nil {
		return nil, err
	}
	return rec.Payload, nil
}

// split cuts packed codeword bits into n-byte codewords.
func split(data []byte, n int) [][]byte {
	words := make([][]byte, 0, len(data)/n)
	for off := 0; off+n <= len(data); off += n {
		words = append(words, data[off:off+n])
	}
	return words
}

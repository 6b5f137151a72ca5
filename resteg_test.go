package resteg_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/teenjuna/resteg"
	"github.com/teenjuna/resteg/internal/frame"
	"github.com/teenjuna/resteg/internal/lsb"
	"github.com/teenjuna/resteg/internal/testing/require"
	"github.com/teenjuna/resteg/placement"
	"github.com/teenjuna/resteg/rs"
)

func TestHello(t *testing.T) {
	carrier := resteg.NewCarrier(100, 100, 3)
	codec := newCodec(t, resteg.Light)

	require.Nil(t, codec.Encode(carrier, []byte("HELLO")))

	plan := planOf(t, carrier, placement.Stride(), resteg.Light, 5)
	planned := make(map[int]bool, len(plan))
	for _, p := range plan {
		planned[p.Sample(carrier.Channels)] = true
	}
	for i, s := range carrier.Samples {
		require.True(t, s <= 1, "only the lowest bit changes")
		if !planned[i] {
			require.Equal(t, s, byte(0))
		}
	}

	rec, err := codec.Decode(carrier)
	require.Nil(t, err)
	require.Equal(t, rec.Payload, []byte("HELLO"))
	require.Equal(t, rec.Corrected, 0)
	require.Equal(t, rec.Codewords, []int{0, 0})
}

func TestTooSmall(t *testing.T) {
	carrier := resteg.NewCarrier(2, 2, 3)
	codec := newCodec(t, resteg.Light)

	err := codec.Encode(carrier, []byte("HELLO"))
	require.ErrorIs(t, err, resteg.ErrCapacityExceeded)
	require.Equal(t, carrier.Samples, make([]byte, 12))
	require.Equal(t, codec.Capacity(carrier), 0)

	err = codec.Encode(carrier, nil)
	require.ErrorIs(t, err, resteg.ErrCapacityExceeded)
}

func TestRoundTrip(t *testing.T) {
	r := rng()
	for _, strength := range []resteg.Strength{resteg.Light, resteg.Standard, resteg.Strong} {
		for _, strategy := range []placement.Strategy{placement.Stride(), placement.Spiral()} {
			t.Run(strength.Name()+"/"+strategy.Name(), func(t *testing.T) {
				codec := newCodec(t, strength, func(c *resteg.Config) {
					c.Placement(strategy)
				})
				for _, n := range []int{0, 1, strength.K() - 1, strength.K(), strength.K() + 1, 500} {
					carrier := randomCarrier(r, 64, 64, 4)
					payload := random(r, n)

					require.Nil(t, codec.Encode(carrier, payload))

					rec, err := codec.Decode(carrier)
					require.Nil(t, err)
					require.Equal(t, rec.Payload, payload)
					require.Equal(t, rec.Corrected, 0)
				}
			})
		}
	}
}

func TestBitFidelity(t *testing.T) {
	r := rng()
	carrier := randomCarrier(r, 50, 50, 3)
	original := slices.Clone(carrier.Samples)
	payload := random(r, 250)

	codec := newCodec(t, resteg.Strong)
	require.Nil(t, codec.Encode(carrier, payload))

	plan := planOf(t, carrier, placement.Stride(), resteg.Strong, len(payload))
	planned := make(map[int]bool, len(plan))
	for _, p := range plan {
		planned[p.Sample(carrier.Channels)] = true
	}

	for i := range carrier.Samples {
		require.Equal(t, carrier.Samples[i]>>1, original[i]>>1)
		if !planned[i] {
			require.Equal(t, carrier.Samples[i], original[i])
		}
	}
}

func TestDeterminism(t *testing.T) {
	r := rng()
	a := randomCarrier(r, 40, 40, 3)
	b := resteg.Carrier{
		Width:    a.Width,
		Height:   a.Height,
		Channels: a.Channels,
		Samples:  slices.Clone(a.Samples),
	}
	payload := random(r, 200)

	require.Nil(t, newCodec(t, resteg.Light, workers(1)).Encode(a, payload))
	require.Nil(t, newCodec(t, resteg.Light, workers(7)).Encode(b, payload))
	require.Equal(t, a.Samples, b.Samples)
}

func TestCapacityBoundary(t *testing.T) {
	// 6000 samples hold 50 Light codewords; one carries the header, 49 carry 11 bytes each.
	carrier := resteg.NewCarrier(50, 40, 3)
	codec := newCodec(t, resteg.Light)
	require.Equal(t, codec.Capacity(carrier), 49*11)
	require.Equal(t, resteg.MaxPayload(carrier.Geometry(), resteg.Light), 49*11)

	payload := random(rng(), 49*11+1)

	err := codec.Encode(carrier, payload)
	require.ErrorIs(t, err, resteg.ErrCapacityExceeded)
	require.Equal(t, carrier.Samples, make([]byte, 6000))

	require.Nil(t, codec.Encode(carrier, payload[:49*11]))
	rec, err := codec.Decode(carrier)
	require.Nil(t, err)
	require.Equal(t, rec.Payload, payload[:49*11])
}

func TestMaxPayload(t *testing.T) {
	g := placement.Geometry{Width: 100, Height: 100, Channels: 3}
	require.Equal(t, resteg.MaxPayload(g, resteg.Light), (30000/120-1)*11)
	require.Equal(t, resteg.MaxPayload(g, resteg.Standard), (30000/2040-1)*223)
	require.Equal(t, resteg.MaxPayload(g, resteg.Strong), (30000/480-1)*20)
	require.Equal(t, resteg.MaxPayload(g, resteg.Custom(10, 3)), (30000/80-3)*3)
	require.Equal(t, resteg.MaxPayload(g, resteg.Custom(10, 10)), 0)
	require.Equal(t, resteg.MaxPayload(placement.Geometry{}, resteg.Light), 0)
	require.Equal(t, resteg.MaxPayload(placement.Geometry{Width: 1, Height: 1, Channels: 3}, resteg.Light), 0)
}

func TestErrorTolerance(t *testing.T) {
	r := rng()
	for _, strength := range []resteg.Strength{resteg.Light, resteg.Standard, resteg.Strong} {
		t.Run(strength.Name(), func(t *testing.T) {
			var (
				carrier = randomCarrier(r, 80, 80, 3)
				payload = random(r, 2*strength.K()+3)
				plan    = planOf(t, carrier, placement.Stride(), strength, len(payload))
				codec   = newCodec(t, strength)
				tt      = (strength.N() - strength.K()) / 2
				word    = frame.HeaderChunks(strength.K()) + 1
			)
			require.Nil(t, codec.Encode(carrier, payload))

			flip(carrier, plan, strength.N(), word, r.Perm(strength.N())[:tt])

			rec, err := codec.Decode(carrier)
			require.Nil(t, err)
			require.Equal(t, rec.Payload, payload)
			require.Equal(t, rec.Corrected, tt)
			require.Equal(t, rec.Codewords[word], tt)
		})
	}
}

func TestUncorrectableData(t *testing.T) {
	r := rng()
	for _, strength := range []resteg.Strength{resteg.Standard, resteg.Strong} {
		t.Run(strength.Name(), func(t *testing.T) {
			var (
				carrier = randomCarrier(r, 80, 80, 3)
				payload = random(r, 2*strength.K()+3)
				plan    = planOf(t, carrier, placement.Stride(), strength, len(payload))
				codec   = newCodec(t, strength)
				tt      = (strength.N() - strength.K()) / 2
				hc      = frame.HeaderChunks(strength.K())
			)
			require.Nil(t, codec.Encode(carrier, payload))

			flip(carrier, plan, strength.N(), hc+1, r.Perm(strength.N())[:tt+1])

			rec, err := codec.Decode(carrier)
			require.Nil(t, rec)
			require.ErrorIs(t, err, resteg.ErrDataRecovery)
			require.ErrorIs(t, err, resteg.ErrUncorrectable)

			var derr *resteg.DecodeError
			require.True(t, errors.As(err, &derr), "error is a DecodeError")
			require.Equal(t, derr.Stage, resteg.StageData)
			require.Equal(t, derr.Chunk, 1)
			require.Equal(t, derr.Failed, 1)
		})
	}
}

func TestUncorrectableLength(t *testing.T) {
	r := rng()
	var (
		carrier = randomCarrier(r, 80, 80, 3)
		payload = random(r, 100)
		plan    = planOf(t, carrier, placement.Stride(), resteg.Standard, len(payload))
		codec   = newCodec(t, resteg.Standard)
	)
	require.Nil(t, codec.Encode(carrier, payload))

	flip(carrier, plan, resteg.Standard.N(), 0, r.Perm(resteg.Standard.N())[:17])

	_, err := codec.Decode(carrier)
	require.ErrorIs(t, err, resteg.ErrLengthRecovery)
	require.ErrorIs(t, err, resteg.ErrUncorrectable)

	var derr *resteg.DecodeError
	require.True(t, errors.As(err, &derr), "error is a DecodeError")
	require.Equal(t, derr.Stage, resteg.StageLength)
	require.Equal(t, derr.Chunk, 0)
}

func TestDecodeWithoutPayload(t *testing.T) {
	carrier := randomCarrier(rng(), 80, 80, 3)
	_, err := newCodec(t, resteg.Standard).Decode(carrier)
	require.ErrorIs(t, err, resteg.ErrLengthRecovery)
}

func TestDecodeTooSmall(t *testing.T) {
	carrier := resteg.NewCarrier(2, 2, 3)
	_, err := newCodec(t, resteg.Light).Decode(carrier)
	require.ErrorIs(t, err, resteg.ErrLengthRecovery)
}

func TestChecksumMismatch(t *testing.T) {
	var (
		r       = rng()
		carrier = randomCarrier(r, 80, 80, 3)
		payload = random(r, 30)
		plan    = planOf(t, carrier, placement.Stride(), resteg.Light, len(payload))
		codec   = newCodec(t, resteg.Light)
	)
	require.Nil(t, codec.Encode(carrier, payload))

	// Overwrite the first data codeword with another valid codeword. Reed-Solomon can't notice,
	// the payload checksum must.
	code, err := rs.New(resteg.Light.N(), resteg.Light.K())
	require.Nil(t, err)
	forged, err := code.Encode(random(r, resteg.Light.K()))
	require.Nil(t, err)
	n := resteg.Light.N()
	lsb.Embed(carrier.Samples, carrier.Channels, plan[n*8:2*n*8], forged)

	_, err = codec.Decode(carrier)
	require.ErrorIs(t, err, resteg.ErrChecksum)

	var derr *resteg.DecodeError
	require.True(t, errors.As(err, &derr), "error is a DecodeError")
	require.Equal(t, derr.Stage, resteg.StageChecksum)
	require.Equal(t, derr.Chunk, -1)
}

func TestInvalidCarrier(t *testing.T) {
	codec := newCodec(t, resteg.Light)

	for _, carrier := range []resteg.Carrier{
		{Width: 10, Height: 10, Channels: 3, Samples: make([]byte, 299)},
		{Width: 0, Height: 10, Channels: 3},
		{Width: 10, Height: 10, Channels: 0},
	} {
		require.ErrorIs(t, codec.Encode(carrier, []byte("x")), resteg.ErrInvalidCarrier)
		_, err := codec.Decode(carrier)
		require.ErrorIs(t, err, resteg.ErrInvalidCarrier)
		require.Equal(t, codec.Capacity(carrier), 0)
	}
}

func TestNewInvalidStrength(t *testing.T) {
	for _, s := range []resteg.Strength{
		resteg.Custom(15, 0),
		resteg.Custom(15, 15),
		resteg.Custom(300, 200),
		{},
	} {
		_, err := resteg.New(func(c *resteg.Config) { c.Strength(s) })
		require.ErrorIs(t, err, resteg.ErrConfiguration)
	}
}

func TestCustomStrength(t *testing.T) {
	var (
		r        = rng()
		strength = resteg.Custom(31, 3)
		carrier  = randomCarrier(r, 30, 30, 3)
		payload  = random(r, 20)
	)
	codec := newCodec(t, strength)
	require.Equal(t, codec.Strength(), strength)
	require.Nil(t, codec.Encode(carrier, payload))

	rec, err := codec.Decode(carrier)
	require.Nil(t, err)
	require.Equal(t, rec.Payload, payload)
	require.Equal(t, len(rec.Codewords), frame.Chunks(len(payload), 3))
}

func TestPackageFunctions(t *testing.T) {
	carrier := resteg.NewCarrier(100, 100, 3)
	require.Nil(t, resteg.Encode(carrier, []byte("HELLO"), resteg.Light))

	payload, err := resteg.Decode(carrier, resteg.Light)
	require.Nil(t, err)
	require.Equal(t, payload, []byte("HELLO"))

	err = resteg.Encode(carrier, []byte("HELLO"), resteg.Custom(1, 1))
	require.ErrorIs(t, err, resteg.ErrConfiguration)
}

func TestConcurrentUse(t *testing.T) {
	var (
		r        = rng()
		codec    = newCodec(t, resteg.Strong, workers(3))
		carriers = make([]resteg.Carrier, 8)
		payloads = make([][]byte, len(carriers))
		wg       sync.WaitGroup
	)
	for i := range carriers {
		carriers[i] = randomCarrier(r, 60, 60, 3)
		payloads[i] = random(r, 50+i*20)
	}

	for i := range carriers {
		wg.Go(func() {
			if err := codec.Encode(carriers[i], payloads[i]); err != nil {
				t.Error(err)
				return
			}
			rec, err := codec.Decode(carriers[i])
			if err != nil {
				t.Error(err)
				return
			}
			if !slices.Equal(rec.Payload, payloads[i]) {
				t.Errorf("carrier %d: payload mismatch", i)
			}
		})
	}
	wg.Wait()
}

func TestParseStrength(t *testing.T) {
	for name, want := range map[string]resteg.Strength{
		"light":    resteg.Light,
		" Strong ": resteg.Strong,
		"standard": resteg.Standard,
		"":         resteg.Standard,
	} {
		s, err := resteg.ParseStrength(name)
		require.Nil(t, err)
		require.Equal(t, s, want)
	}

	_, err := resteg.ParseStrength("paranoid")
	require.ErrorIs(t, err, resteg.ErrConfiguration)
}

func newCodec(t *testing.T, strength resteg.Strength, configFuncs ...resteg.ConfigFunc) *resteg.Codec {
	t.Helper()
	configFuncs = append([]resteg.ConfigFunc{
		func(c *resteg.Config) { c.Strength(strength) },
	}, configFuncs...)
	codec, err := resteg.New(configFuncs...)
	require.Nil(t, err)
	return codec
}

func workers(n int) resteg.ConfigFunc {
	return func(c *resteg.Config) {
		c.Workers(n)
	}
}

// planOf returns the positions a payload of the given length occupies in the carrier.
func planOf(
	t *testing.T,
	carrier resteg.Carrier,
	strategy placement.Strategy,
	strength resteg.Strength,
	length int,
) []placement.Position {
	t.Helper()
	bits := frame.Chunks(length, strength.K()) * strength.N() * 8
	plan, err := strategy.Plan(carrier.Geometry(), bits)
	require.Nil(t, err)
	return plan
}

// flip inverts the lowest bit of the given bytes of codeword word, corrupting each byte once.
func flip(carrier resteg.Carrier, plan []placement.Position, n, word int, bytes []int) {
	for _, b := range bytes {
		p := plan[(word*n+b)*8]
		carrier.Samples[p.Sample(carrier.Channels)] ^= 1
	}
}

func rng() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func random(r *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.UintN(256))
	}
	return b
}

func randomCarrier(r *rand.Rand, width, height, channels int) resteg.Carrier {
	c := resteg.NewCarrier(width, height, channels)
	for i := range c.Samples {
		c.Samples[i] = byte(r.UintN(256))
	}
	return c
}

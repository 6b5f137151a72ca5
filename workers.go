package resteg

import (
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/teenjuna/resteg/rs"
)

// encodeChunks turns every chunk into a codeword. Codewords keep the order of the chunks.
func (c *Codec) encodeChunks(chunks [][]byte) ([][]byte, error) {
	words := make([][]byte, len(chunks))
	err := c.parallel(len(chunks), func(code *rs.Code, i int) error {
		word, err := code.Encode(chunks[i])
		if err != nil {
			return err
		}
		words[i] = word
		return nil
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

// decodeChunks recovers the data of every codeword along with the number of bytes corrected in
// each. All codewords are attempted; if any fails, a [*DecodeError] of the stage reports the first
// one.
func (c *Codec) decodeChunks(words [][]byte, stage Stage) ([][]byte, []int, error) {
	var (
		chunks    = make([][]byte, len(words))
		corrected = make([]int, len(words))
		errs      = make([]error, len(words))
	)
	// The callback never fails; failures are collected per codeword so that the reported one
	// doesn't depend on goroutine scheduling.
	_ = c.parallel(len(words), func(code *rs.Code, i int) error {
		chunks[i], corrected[i], errs[i] = code.Decode(words[i])
		return nil
	})

	var derr *DecodeError
	for i, err := range errs {
		if err == nil {
			continue
		}
		c.metrics.uncorrectable.Inc()
		c.cfg.logger.Warn("uncorrectable codeword",
			slog.String("stage", stage.String()),
			slog.Int("chunk", i),
			slog.String("error", err.Error()),
		)
		if derr == nil {
			derr = &DecodeError{Stage: stage, Chunk: i, Err: err}
		}
		derr.Failed++
	}
	if derr != nil {
		return nil, nil, derr
	}

	return chunks, corrected, nil
}

// parallel calls fn for every index in [0, count). Indices are split into contiguous ranges, one
// per worker, and every worker derives its own code.
func (c *Codec) parallel(count int, fn func(code *rs.Code, i int) error) error {
	if count == 0 {
		return nil
	}

	var (
		group   errgroup.Group
		workers = min(c.cfg.workers, count)
		size    = (count + workers - 1) / workers
	)
	for lo := 0; lo < count; lo += size {
		hi := min(lo+size, count)
		group.Go(func() error {
			code := c.code.Derive()
			for i := lo; i < hi; i++ {
				if err := fn(code, i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return group.Wait()
}


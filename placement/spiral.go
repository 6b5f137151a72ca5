package placement

import "math/bits"

var _ Strategy = (*SpiralStrategy)(nil)

// SpiralStrategy walks the pixels along an inward rectangular spiral: down the first column, right
// along the last row, up the last column and left along the first row, one ring at a time. Samples
// on the spiral are then taken in bit-reversed index order, so every prefix of the plan is spaced
// evenly along the whole spiral.
type SpiralStrategy struct{}

func Spiral() *SpiralStrategy {
	return &SpiralStrategy{}
}

func (s *SpiralStrategy) Name() string {
	return "spiral"
}

func (s *SpiralStrategy) Plan(g Geometry, n int) ([]Position, error) {
	if err := check(g, n); err != nil {
		return nil, err
	}

	var (
		order = spiral(g.Width, g.Height)
		plan  = make([]Position, n)
	)
	for i, t := range reversed(g.Samples(), n) {
		plan[i] = Position{
			Pixel:   order[t/g.Channels],
			Channel: t % g.Channels,
		}
	}

	return plan, nil
}

// reversed returns the first n integers below size in bit-reversed counting order.
func reversed(size, n int) []int {
	var (
		width = bits.Len(uint(size - 1))
		out   = make([]int, 0, n)
	)
	for i := uint64(0); len(out) < n; i++ {
		t := int(bits.Reverse64(i) >> (64 - width))
		if t < size {
			out = append(out, t)
		}
	}
	return out
}

// spiral returns the row-major pixel indices of a w×h image in spiral order.
func spiral(w, h int) []int {
	var (
		order                    = make([]int, 0, w*h)
		left, top, right, bottom = 0, 0, w - 1, h - 1
	)
	for left <= right && top <= bottom {
		for y := top; y <= bottom; y++ {
			order = append(order, y*w+left)
		}
		for x := left + 1; x <= right; x++ {
			order = append(order, bottom*w+x)
		}
		if left < right {
			for y := bottom - 1; y >= top; y-- {
				order = append(order, y*w+right)
			}
		}
		if top < bottom {
			for x := right - 1; x > left; x-- {
				order = append(order, top*w+x)
			}
		}
		left, top, right, bottom = left+1, top+1, right-1, bottom-1
	}
	return order
}

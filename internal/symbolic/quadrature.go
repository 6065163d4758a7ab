package symbolic

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

const (
	quadMinNodes = 32
	quadMaxNodes = 4096
	quadRelTol   = 1e-9
)

// Quadrature integrates f over [a, b] (a > b is allowed and negates the
// result). The interval is mapped through x = a + (b-a)(1-cos(pi*t))/2,
// which clusters Gauss-Legendre nodes at both ends and smooths integrable
// endpoint singularities. The node count doubles until two estimates agree.
func Quadrature(ctx context.Context, f func(float64) float64, a, b float64) (float64, error) {
	if a == b {
		return 0, nil
	}
	width := b - a
	bad := false
	g := func(t float64) float64 {
		x := a + width*(1-math.Cos(math.Pi*t))/2
		v := f(x) * width * math.Pi * math.Sin(math.Pi*t) / 2
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = true
		}
		return v
	}

	prev := math.NaN()
	for n := quadMinNodes; n <= quadMaxNodes; n *= 2 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		v := quad.Fixed(g, 0, 1, n, quad.Legendre{}, 1)
		if bad {
			return 0, fmt.Errorf("%w: integrand is not finite on [%g, %g]", ErrDivergent, a, b)
		}
		if !math.IsNaN(prev) && math.Abs(v-prev) <= quadRelTol*math.Max(1, math.Abs(v)) {
			return v, nil
		}
		prev = v
	}
	return 0, fmt.Errorf("%w: estimates did not settle on [%g, %g]", ErrDivergent, a, b)
}

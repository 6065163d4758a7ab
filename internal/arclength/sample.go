package arclength

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	AreaSamples  = 100
	CurveSamples = 150

	// ViewPadding widens the curve view by this fraction of the interval
	// width on each side; DegeneratePadding is used for zero-width intervals.
	ViewPadding       = 0.2
	DegeneratePadding = 1.0
)

// Sample evaluates expr at AreaSamples evenly spaced points of iv and at
// CurveSamples points of the padded view around it. Points where the function
// is undefined or not finite are dropped, so either series may be shorter
// than its nominal size.
func Sample(eng Engine, expr Expr, v string, iv Interval) (area, curve []GraphPoint, err error) {
	fn, err := eng.Compile(expr, v)
	if err != nil {
		return nil, nil, WrapError(KindSamplingUnavailable, err, "no se pudo evaluar numéricamente %s", expr)
	}
	lo, hi := ViewBounds(iv)
	return sampleRange(fn, iv.Lower, iv.Upper, AreaSamples), sampleRange(fn, lo, hi, CurveSamples), nil
}

// ViewBounds returns the padded plotting range for iv. Reversed intervals
// keep their orientation.
func ViewBounds(iv Interval) (lo, hi float64) {
	pad := ViewPadding * (iv.Upper - iv.Lower)
	if iv.Degenerate() {
		pad = DegeneratePadding
	}
	return iv.Lower - pad, iv.Upper + pad
}

func sampleRange(fn Evaluator, lo, hi float64, n int) []GraphPoint {
	xs := floats.Span(make([]float64, n), lo, hi)
	points := make([]GraphPoint, 0, n)
	for _, x := range xs {
		if !finite(x) {
			continue
		}
		if y, ok := evalPoint(fn, x); ok {
			points = append(points, GraphPoint{X: x, Y: y})
		}
	}
	return points
}

func evalPoint(fn Evaluator, x float64) (y float64, ok bool) {
	defer func() {
		if recover() != nil {
			y, ok = 0, false
		}
	}()
	y = fn(x)
	return y, finite(y)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

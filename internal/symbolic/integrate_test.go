package symbolic_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gal0-avrd/LongD-Arc/internal/symbolic"
)

func mustParse(t *testing.T, src string) symbolic.Expr {
	t.Helper()
	e, err := symbolic.Parse(src)
	require.NoError(t, err)
	return e
}

func TestAntiderivative_DifferentiatesBack(t *testing.T) {
	inputs := []string{
		"7",
		"3*x^2 + 2*x + 1",
		"(2*x + 1)^3",
		"1/(2*x + 1)",
		"(3*x + 2)^(-1/2)",
		"2^(3*x)",
		"sqrt(4*x^2 + 1)",
		"sqrt(x^2 + 2*x + 5)",
		"sqrt(x^2 + 2*x + 1)",
		"sqrt(1 + sinh(x)^2)",
		"sin(3*x)",
		"cos(x/2)",
		"exp(-x)",
		"sinh(2*x) + cosh(x)",
		"pi*exp(2*x)",
	}
	const h = 1e-5
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			e := mustParse(t, in)
			anti, ok := symbolic.Antiderivative(e, "x")
			require.True(t, ok)
			F, err := symbolic.Compile(anti, "x")
			require.NoError(t, err)
			f, err := symbolic.Compile(e, "x")
			require.NoError(t, err)
			for _, x := range []float64{0.3, 0.7, 1.9} {
				want := f(x)
				got := (F(x+h) - F(x-h)) / (2 * h)
				assert.InDelta(t, want, got, 1e-5*(1+math.Abs(want)), "x=%g F=%s", x, anti)
			}
		})
	}
}

func TestAntiderivative_NoRule(t *testing.T) {
	for _, in := range []string{"1/(x^2 + 1)", "sqrt(9*x^4 + 1)", "sin(x^2)", "x*exp(x)"} {
		_, ok := symbolic.Antiderivative(mustParse(t, in), "x")
		assert.False(t, ok, in)
	}
}

func TestDefiniteIntegral_ParabolaArc(t *testing.T) {
	ctx := context.Background()
	got, err := symbolic.DefiniteIntegral(ctx, mustParse(t, "sqrt(4*x^2 + 1)"), "x", symbolic.N(0), symbolic.N(1))
	require.NoError(t, err)
	assert.Equal(t, "asinh(2)/4 + sqrt(5)/2", got.String())

	v, err := symbolic.Evalf(ctx, got)
	require.NoError(t, err)
	assert.InDelta(t, 1.4789428575445975, v, 1e-12)
}

func TestDefiniteIntegral_EqualBounds(t *testing.T) {
	got, err := symbolic.DefiniteIntegral(context.Background(), mustParse(t, "1/x"), "x", symbolic.N(2), symbolic.N(2))
	require.NoError(t, err)
	assert.Equal(t, "0", got.String())
}

func TestDefiniteIntegral_Unevaluated(t *testing.T) {
	ctx := context.Background()
	got, err := symbolic.DefiniteIntegral(ctx, mustParse(t, "1/(x^2 + 1)"), "x", symbolic.N(0), symbolic.N(1))
	require.NoError(t, err)
	_, isIntegral := got.(*symbolic.Integral)
	require.True(t, isIntegral, "got %s", got)

	v, err := symbolic.Evalf(ctx, got)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/4, v, 1e-9)
}

func TestDefiniteIntegral_PoleInside(t *testing.T) {
	ctx := context.Background()
	got, err := symbolic.DefiniteIntegral(ctx, mustParse(t, "x^(-2)"), "x", symbolic.N(-1), symbolic.N(1))
	require.NoError(t, err)
	_, isIntegral := got.(*symbolic.Integral)
	require.True(t, isIntegral, "got %s", got)

	_, err = symbolic.Evalf(ctx, got)
	assert.ErrorIs(t, err, symbolic.ErrDivergent)
}

func TestDefiniteIntegral_Catenary(t *testing.T) {
	got, err := symbolic.DefiniteIntegral(context.Background(), mustParse(t, "sqrt(1 + sinh(x)^2)"), "x", symbolic.N(0), symbolic.N(1))
	require.NoError(t, err)
	assert.Equal(t, "sinh(1)", got.String())
}

func TestDefiniteIntegral_Orientation(t *testing.T) {
	ctx := context.Background()
	for _, in := range []string{"sqrt(4*x^2 + 1)", "sqrt(9*x^4 + 1)", "cos(x)"} {
		t.Run(in, func(t *testing.T) {
			f := mustParse(t, in)
			fwd, err := symbolic.DefiniteIntegral(ctx, f, "x", symbolic.F(1, 2), symbolic.N(2))
			require.NoError(t, err)
			rev, err := symbolic.DefiniteIntegral(ctx, f, "x", symbolic.N(2), symbolic.F(1, 2))
			require.NoError(t, err)
			a, err := symbolic.Evalf(ctx, fwd)
			require.NoError(t, err)
			b, err := symbolic.Evalf(ctx, rev)
			require.NoError(t, err)
			assert.InDelta(t, a, -b, 1e-9)
		})
	}
}

func TestDefiniteIntegral_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := symbolic.DefiniteIntegral(ctx, mustParse(t, "x"), "x", symbolic.N(0), symbolic.N(1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuadrature(t *testing.T) {
	ctx := context.Background()

	v, err := symbolic.Quadrature(ctx, math.Sin, 0, math.Pi)
	require.NoError(t, err)
	assert.InDelta(t, 2, v, 1e-10)

	// Integrable endpoint singularity.
	v, err = symbolic.Quadrature(ctx, func(x float64) float64 { return 1 / math.Sqrt(x) }, 0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2, v, 1e-8)

	v, err = symbolic.Quadrature(ctx, math.Exp, 1, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1-math.E, v, 1e-10)

	v, err = symbolic.Quadrature(ctx, math.Exp, 3, 3)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestQuadrature_Errors(t *testing.T) {
	_, err := symbolic.Quadrature(context.Background(), func(x float64) float64 { return math.Log(x - 1) }, 0, 2)
	assert.ErrorIs(t, err, symbolic.ErrDivergent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = symbolic.Quadrature(ctx, math.Sin, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

package symbolic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gal0-avrd/LongD-Arc/internal/symbolic"
)

func TestDiff_Rules(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5", "0"},
		{"x", "1"},
		{"x^2", "2*x"},
		{"x^3", "3*x**2"},
		{"3*x + 1", "3"},
		{"sin(x)", "cos(x)"},
		{"cos(x)", "-sin(x)"},
		{"exp(2*x)", "2*exp(2*x)"},
		{"log(x)", "1/x"},
		{"sqrt(x)", "1/(2*sqrt(x))"},
		{"cosh(x)", "sinh(x)"},
		{"y^2", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := symbolic.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Diff("x").String())
		})
	}
}

// TestDiff_Numeric compares symbolic derivatives with central differences.
func TestDiff_Numeric(t *testing.T) {
	inputs := []string{
		"x*sin(x)",
		"x^x",
		"exp(-x^2)",
		"sqrt(x^4 + 1)",
		"atan(x)/x",
		"log(x^2 + 1)",
		"tan(x)",
		"asin(x/2)",
		"tanh(3*x) - asinh(x)",
		"2^x",
	}
	const h = 1e-6
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			e, err := symbolic.Parse(in)
			require.NoError(t, err)
			f, err := symbolic.Compile(e, "x")
			require.NoError(t, err)
			df, err := symbolic.Compile(e.Diff("x"), "x")
			require.NoError(t, err)
			for _, x := range []float64{0.4, 0.9, 1.3} {
				want := (f(x+h) - f(x-h)) / (2 * h)
				assert.InDelta(t, want, df(x), 1e-5*(1+math.Abs(want)), "x=%g", x)
			}
		})
	}
}

func TestDiff_IntegralBoundUnsupported(t *testing.T) {
	e, err := symbolic.Parse("integrate(t, t, 0, x)")
	require.NoError(t, err)

	_, err = symbolic.NewEngine().Diff(e, "x")
	assert.ErrorIs(t, err, symbolic.ErrUnsupported)

	d, err := symbolic.NewEngine().Diff(e, "y")
	require.NoError(t, err)
	assert.Equal(t, "0", d.String())
}

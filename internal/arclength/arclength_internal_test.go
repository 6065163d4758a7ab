package arclength

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

var unitInterval = Interval{Lower: 0, Upper: 1, LowerText: "0", UpperText: "1"}

func TestResolveVariable(t *testing.T) {
	eng := &fakeEngine{}
	v, err := ResolveVariable(eng, fx("5"))
	if err != nil || v != "x" {
		t.Fatalf("constant: got %q, %v", v, err)
	}

	eng.free = []string{"t"}
	v, err = ResolveVariable(eng, fx("t^2"))
	if err != nil || v != "t" {
		t.Fatalf("single: got %q, %v", v, err)
	}

	eng.free = []string{"x", "y"}
	_, err = ResolveVariable(eng, fx("x*y"))
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindAmbiguousVariable {
		t.Fatalf("expected ambiguous variable error, got %v", err)
	}
	if len(e.Variables) != 2 || e.Variables[0] != "x" || e.Variables[1] != "y" {
		t.Fatalf("unexpected variables %v", e.Variables)
	}
	if !strings.HasSuffix(e.Message, "x, y") {
		t.Fatalf("message should list the variables, got %q", e.Message)
	}
}

func TestBuildDerivationSteps(t *testing.T) {
	d, err := BuildDerivation(&fakeEngine{}, fx("x^2"), "x", unitInterval)
	if err != nil {
		t.Fatalf("BuildDerivation: %v", err)
	}
	want := []string{
		"Función: $f(x) = tex:x^2$",
		"Derivada: $f'(x) = tex:d(x^2)$",
		"Derivada al cuadrado: $[f'(x)]^2 = tex:(d(x^2))^2$",
		`Integrando: $\sqrt{1 + tex:(d(x^2))^2}$`,
		`Integral a resolver: $L = \int_{0}^{1} tex:sqrt(1 + (d(x^2))^2) \, dx$`,
	}
	if len(d.Steps) != len(want) {
		t.Fatalf("expected %d steps, got %d: %v", len(want), len(d.Steps), d.Steps)
	}
	for i := range want {
		if d.Steps[i] != want[i] {
			t.Fatalf("step %d: expected %q, got %q", i+1, want[i], d.Steps[i])
		}
	}
	if d.Display != "f(x) = tex:x^2" {
		t.Fatalf("unexpected display %q", d.Display)
	}
}

func TestBuildDerivationKeepsBoundText(t *testing.T) {
	iv := Interval{Lower: 0.5, Upper: -2, LowerText: "0.50", UpperText: "-2"}
	d, err := BuildDerivation(&fakeEngine{}, fx("x"), "x", iv)
	if err != nil {
		t.Fatalf("BuildDerivation: %v", err)
	}
	if !strings.Contains(d.Steps[4], `\int_{0.50}^{-2}`) {
		t.Fatalf("bounds not typeset as supplied: %q", d.Steps[4])
	}
}

func TestBuildDerivationDiffFailure(t *testing.T) {
	_, err := BuildDerivation(&fakeEngine{diffErr: errors.New("boom")}, fx("x"), "x", unitInterval)
	if !IsKind(err, KindSymbolicComputation) {
		t.Fatalf("expected symbolic computation error, got %v", err)
	}
}

func TestEvaluateIntegralAppendsResult(t *testing.T) {
	eng := &fakeEngine{}
	d, err := BuildDerivation(eng, fx("x"), "x", unitInterval)
	if err != nil {
		t.Fatalf("BuildDerivation: %v", err)
	}
	if err := EvaluateIntegral(context.Background(), eng, d, unitInterval, time.Second); err != nil {
		t.Fatalf("EvaluateIntegral: %v", err)
	}
	if d.Numeric != 1.5 || d.Exact.String() != "I" {
		t.Fatalf("unexpected result %v %v", d.Numeric, d.Exact)
	}
	if len(d.Steps) != 6 || d.Steps[5] != "Resultado exacto: $L = tex:I$" {
		t.Fatalf("unexpected final step %v", d.Steps)
	}
}

func TestEvaluateIntegralErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		eng  *fakeEngine
		iv   Interval
		want Kind
	}{
		{
			name: "integration failure",
			eng: &fakeEngine{integrate: func(context.Context) (Expr, error) {
				return nil, errors.New("no rule")
			}},
			iv:   unitInterval,
			want: KindSymbolicComputation,
		},
		{
			name: "evaluation failure",
			eng: &fakeEngine{evalf: func(context.Context) (float64, error) {
				return 0, errors.New("not real")
			}},
			iv:   unitInterval,
			want: KindDivergentIntegral,
		},
		{
			name: "infinite value",
			eng: &fakeEngine{evalf: func(context.Context) (float64, error) {
				return math.Inf(1), nil
			}},
			iv:   unitInterval,
			want: KindDivergentIntegral,
		},
		{
			name: "engine panic",
			eng: &fakeEngine{integrate: func(context.Context) (Expr, error) {
				panic("broken")
			}},
			iv:   unitInterval,
			want: KindSymbolicComputation,
		},
		{
			name: "bad bound text",
			eng:  &fakeEngine{},
			iv:   Interval{Lower: 0, Upper: 1, LowerText: "zero", UpperText: "1"},
			want: KindInvalidInput,
		},
		{
			name: "timeout",
			eng: &fakeEngine{integrate: func(ctx context.Context) (Expr, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			}},
			iv:   unitInterval,
			want: KindComputationTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Derivation{Variable: "x", Integrand: fx("f")}
			err := EvaluateIntegral(context.Background(), tt.eng, d, tt.iv, 20*time.Millisecond)
			if !IsKind(err, tt.want) {
				t.Fatalf("expected %s, got %v", tt.want, err)
			}
			if d.Exact != nil || len(d.Steps) != 0 {
				t.Fatalf("derivation modified on failure: %+v", d)
			}
		})
	}
}

func TestEvaluateIntegralIgnoresSlowEngineAfterTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	eng := &fakeEngine{integrate: func(context.Context) (Expr, error) {
		<-release
		return fx("late"), nil
	}}
	d := &Derivation{Variable: "x", Integrand: fx("f")}

	start := time.Now()
	err := EvaluateIntegral(context.Background(), eng, d, unitInterval, 20*time.Millisecond)
	if !IsKind(err, KindComputationTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
	if !strings.Contains(UserMessage(err), "tiempo límite") {
		t.Fatalf("unexpected message %q", UserMessage(err))
	}
}

func TestSampleDegenerateInterval(t *testing.T) {
	eng := &fakeEngine{compile: func(x float64) float64 { return x * x }}
	iv := Interval{Lower: 2, Upper: 2}
	area, curve, err := Sample(eng, fx("x^2"), "x", iv)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(area) != AreaSamples {
		t.Fatalf("expected %d area points, got %d", AreaSamples, len(area))
	}
	for _, p := range area {
		if p.X != 2 || p.Y != 4 {
			t.Fatalf("unexpected area point %+v", p)
		}
	}
	if len(curve) != CurveSamples {
		t.Fatalf("expected %d curve points, got %d", CurveSamples, len(curve))
	}
	if curve[0].X != 1 || curve[len(curve)-1].X != 3 {
		t.Fatalf("unexpected curve range [%g, %g]", curve[0].X, curve[len(curve)-1].X)
	}
}

func TestSampleDropsUndefinedPoints(t *testing.T) {
	eng := &fakeEngine{compile: func(x float64) float64 {
		if x > 0.5 {
			panic("out of domain")
		}
		return math.Log(x)
	}}
	area, curve, err := Sample(eng, fx("log(x)"), "x", Interval{Lower: -1, Upper: 1})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	for _, p := range append(area, curve...) {
		if p.X <= 0 || p.X > 0.5 || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			t.Fatalf("undefined point kept: %+v", p)
		}
	}
	if len(area) == 0 || len(area) >= AreaSamples {
		t.Fatalf("expected a partial area series, got %d points", len(area))
	}
}

func TestSampleCompileFailure(t *testing.T) {
	_, _, err := Sample(&fakeEngine{compileErr: errors.New("nope")}, fx("f"), "x", unitInterval)
	if !IsKind(err, KindSamplingUnavailable) {
		t.Fatalf("expected sampling error, got %v", err)
	}
}

func TestViewBounds(t *testing.T) {
	lo, hi := ViewBounds(Interval{Lower: 0, Upper: 10})
	if lo != -2 || hi != 12 {
		t.Fatalf("expected [-2, 12], got [%g, %g]", lo, hi)
	}
	lo, hi = ViewBounds(Interval{Lower: 10, Upper: 0})
	if lo != 12 || hi != -2 {
		t.Fatalf("expected reversed [12, -2], got [%g, %g]", lo, hi)
	}
}

func TestParseInterval(t *testing.T) {
	iv, err := ParseInterval(" 2 ", "-1.5")
	if err != nil {
		t.Fatalf("ParseInterval: %v", err)
	}
	if iv.Lower != 2 || iv.Upper != -1.5 || iv.LowerText != "2" || iv.UpperText != "-1.5" {
		t.Fatalf("unexpected interval %+v", iv)
	}

	for _, bad := range [][2]string{{"", "1"}, {"0", " "}, {"abc", "1"}, {"0", "1e999"}, {"NaN", "1"}, {"0", "inf"}} {
		if _, err := ParseInterval(bad[0], bad[1]); !IsKind(err, KindInvalidInput) {
			t.Fatalf("ParseInterval(%q, %q): expected invalid input, got %v", bad[0], bad[1], err)
		}
	}
}

func TestComputeInputErrors(t *testing.T) {
	c := NewCalculator(&fakeEngine{})
	if _, err := c.Compute(context.Background(), Request{Function: "  ", LowerBound: "0", UpperBound: "1"}); !IsKind(err, KindInvalidInput) {
		t.Fatalf("empty function: got %v", err)
	}

	c = NewCalculator(&fakeEngine{parseErr: errors.New("syntax")})
	if _, err := c.Compute(context.Background(), Request{Function: "x +", LowerBound: "0", UpperBound: "1"}); !IsKind(err, KindSymbolicComputation) {
		t.Fatalf("parse failure: got %v", err)
	}
}

func TestComputeWaitsForSlot(t *testing.T) {
	c := NewCalculator(&fakeEngine{}, WithMaxConcurrent(1))
	c.sem <- struct{}{}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Compute(ctx, Request{Function: "x", LowerBound: "0", UpperBound: "1"})
	if !IsKind(err, KindComputationTimeout) {
		t.Fatalf("expected timeout while waiting, got %v", err)
	}

	<-c.sem
	res, err := c.Compute(context.Background(), Request{Function: "x", LowerBound: "0", UpperBound: "1"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Numeric != 1.5 || len(res.Steps) != 6 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCalculatorOptions(t *testing.T) {
	c := NewCalculator(&fakeEngine{}, WithTimeout(-time.Second), WithLogger(nil))
	if c.Timeout() != DefaultTimeout || c.log == nil || c.sem != nil {
		t.Fatalf("invalid options should be ignored: %+v", c)
	}
	if got := NewCalculator(&fakeEngine{}, WithTimeout(time.Minute)).Timeout(); got != time.Minute {
		t.Fatalf("expected 1m, got %s", got)
	}
}

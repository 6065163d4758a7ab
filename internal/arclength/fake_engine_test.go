package arclength

import (
	"context"
	"strconv"
)

type fx string

func (f fx) String() string { return string(f) }

// fakeEngine records nothing and understands nothing; it builds readable
// strings so the pipeline's plumbing can be checked in isolation.
type fakeEngine struct {
	free       []string
	parseErr   error
	diffErr    error
	integrate  func(ctx context.Context) (Expr, error)
	evalf      func(ctx context.Context) (float64, error)
	compile    Evaluator
	compileErr error
}

func (f *fakeEngine) Parse(src string) (Expr, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return fx(src), nil
}

func (f *fakeEngine) FreeSymbols(Expr) []string { return f.free }
func (f *fakeEngine) DefaultSymbol() string     { return "x" }

func (f *fakeEngine) Number(text string) (Expr, error) {
	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return nil, err
	}
	return fx(text), nil
}

func (f *fakeEngine) Diff(e Expr, v string) (Expr, error) {
	if f.diffErr != nil {
		return nil, f.diffErr
	}
	return fx("d(" + e.String() + ")"), nil
}

func (f *fakeEngine) Add(a, b Expr) (Expr, error)      { return fx(a.String() + " + " + b.String()), nil }
func (f *fakeEngine) Pow(base, exp Expr) (Expr, error) { return fx("(" + base.String() + ")^" + exp.String()), nil }
func (f *fakeEngine) Sqrt(e Expr) (Expr, error)        { return fx("sqrt(" + e.String() + ")"), nil }

func (f *fakeEngine) DefiniteIntegral(ctx context.Context, _ Expr, _ string, _, _ Expr) (Expr, error) {
	if f.integrate != nil {
		return f.integrate(ctx)
	}
	return fx("I"), nil
}

func (f *fakeEngine) Evalf(ctx context.Context, _ Expr) (float64, error) {
	if f.evalf != nil {
		return f.evalf(ctx)
	}
	return 1.5, nil
}

func (f *fakeEngine) LaTeX(e Expr) string { return "tex:" + e.String() }

func (f *fakeEngine) Compile(Expr, string) (Evaluator, error) {
	if f.compileErr != nil {
		return nil, f.compileErr
	}
	if f.compile != nil {
		return f.compile, nil
	}
	return func(x float64) float64 { return x }, nil
}

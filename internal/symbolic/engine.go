package symbolic

import (
	"context"
	"fmt"

	"github.com/Gal0-avrd/LongD-Arc/internal/arclength"
)

// DefaultSymbol is the variable of constant functions.
const DefaultSymbol = "x"

// Engine exposes the kernel as an arclength.Engine. It is stateless.
type Engine struct{}

var _ arclength.Engine = Engine{}

func NewEngine() Engine { return Engine{} }

func (Engine) Parse(src string) (arclength.Expr, error) {
	e, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (Engine) FreeSymbols(e arclength.Expr) []string {
	x, ok := e.(Expr)
	if !ok {
		return nil
	}
	return FreeSymbols(x)
}

func (Engine) DefaultSymbol() string { return DefaultSymbol }

func (Engine) Number(text string) (arclength.Expr, error) {
	n, err := NumFromText(text)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (Engine) Diff(e arclength.Expr, v string) (arclength.Expr, error) {
	x, err := unwrap(e)
	if err != nil {
		return nil, err
	}
	return guard(func() Expr { return x.Diff(v) })
}

func (Engine) Add(a, b arclength.Expr) (arclength.Expr, error) {
	x, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	y, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	return guard(func() Expr { return AddOf(x, y) })
}

func (Engine) Pow(base, exp arclength.Expr) (arclength.Expr, error) {
	x, err := unwrap(base)
	if err != nil {
		return nil, err
	}
	y, err := unwrap(exp)
	if err != nil {
		return nil, err
	}
	return guard(func() Expr { return PowOf(x, y) })
}

func (Engine) Sqrt(e arclength.Expr) (arclength.Expr, error) {
	x, err := unwrap(e)
	if err != nil {
		return nil, err
	}
	return guard(func() Expr { return SqrtOf(x) })
}

func (Engine) DefiniteIntegral(ctx context.Context, integrand arclength.Expr, v string, lower, upper arclength.Expr) (arclength.Expr, error) {
	f, err := unwrap(integrand)
	if err != nil {
		return nil, err
	}
	lo, err := unwrap(lower)
	if err != nil {
		return nil, err
	}
	hi, err := unwrap(upper)
	if err != nil {
		return nil, err
	}
	var integrateErr error
	out, err := guard(func() Expr {
		var r Expr
		r, integrateErr = DefiniteIntegral(ctx, f, v, lo, hi)
		return r
	})
	if err != nil {
		return nil, err
	}
	if integrateErr != nil {
		return nil, integrateErr
	}
	return out, nil
}

func (Engine) Evalf(ctx context.Context, e arclength.Expr) (float64, error) {
	x, err := unwrap(e)
	if err != nil {
		return 0, err
	}
	return Evalf(ctx, x)
}

func (Engine) LaTeX(e arclength.Expr) string {
	if x, ok := e.(Expr); ok {
		return x.LaTeX()
	}
	return e.String()
}

func (Engine) Compile(e arclength.Expr, v string) (arclength.Evaluator, error) {
	x, err := unwrap(e)
	if err != nil {
		return nil, err
	}
	fn, err := Compile(x, v)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func unwrap(e arclength.Expr) (Expr, error) {
	x, ok := e.(Expr)
	if !ok {
		return nil, fmt.Errorf("%w: foreign expression %T", ErrUnsupported, e)
	}
	return x, nil
}

// guard converts an unsupported panic raised inside the tree into an error.
func guard(fn func() Expr) (out arclength.Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			u, ok := r.(unsupported)
			if !ok {
				panic(r)
			}
			out, err = nil, fmt.Errorf("%w: %s", ErrUnsupported, u.msg)
		}
	}()
	return fn(), nil
}

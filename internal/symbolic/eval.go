package symbolic

import (
	"context"
	"fmt"
	"math"
)

// Evalf evaluates a closed expression to a float64. Unevaluated integrals are
// computed by Quadrature. Free symbols, NaN and infinities are ErrNotReal.
func Evalf(ctx context.Context, e Expr) (float64, error) {
	v, err := evalf(ctx, e)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s evaluates to %g", ErrNotReal, e, v)
	}
	return v, nil
}

func evalf(ctx context.Context, e Expr) (float64, error) {
	v, err := evalScaled(ctx, e)
	if err != nil {
		return 0, err
	}
	return v.float(), nil
}

// evalScaled keeps numbers in scaled form until the end, so that exact
// rationals far outside float64 range do not overflow midway.
func evalScaled(ctx context.Context, e Expr) (scaled, error) {
	switch v := e.(type) {
	case *Num:
		return scaledRat(v.val), nil
	case *Const:
		return scaledOf(v.value), nil
	case *Sym:
		return scaled{}, fmt.Errorf("%w: free symbol %s", ErrNotReal, v.name)
	case *Add:
		sum := scaled{}
		for _, t := range v.terms {
			x, err := evalScaled(ctx, t)
			if err != nil {
				return scaled{}, err
			}
			sum = sum.add(x)
		}
		return sum, nil
	case *Mul:
		prod := scaledRat(v.coeff.val)
		for _, f := range v.factors {
			x, err := evalScaled(ctx, f)
			if err != nil {
				return scaled{}, err
			}
			prod = prod.mul(x)
		}
		return prod, nil
	case *Pow:
		b, err := evalScaled(ctx, v.base)
		if err != nil {
			return scaled{}, err
		}
		if n, ok := v.exp.(*Num); ok && isHalf(n) {
			return b.sqrt(), nil
		}
		x, err := evalScaled(ctx, v.exp)
		if err != nil {
			return scaled{}, err
		}
		return b.pow(x.float()), nil
	case *Func:
		x, err := evalScaled(ctx, v.arg)
		if err != nil {
			return scaled{}, err
		}
		return scaledOf(funcs[v.name].eval(x.float())), nil
	case *Integral:
		lo, err := evalf(ctx, v.lower)
		if err != nil {
			return scaled{}, err
		}
		hi, err := evalf(ctx, v.upper)
		if err != nil {
			return scaled{}, err
		}
		fn, err := Compile(v.integrand, v.name)
		if err != nil {
			return scaled{}, err
		}
		r, err := Quadrature(ctx, fn, lo, hi)
		if err != nil {
			return scaled{}, err
		}
		return scaledOf(r), nil
	}
	return scaled{}, fmt.Errorf("%w: cannot evaluate %T", ErrUnsupported, e)
}

// Compile turns e into a float64 function of the variable name. Other free
// symbols are ErrUnsupported.
func Compile(e Expr, name string) (func(float64) float64, error) {
	for _, s := range FreeSymbols(e) {
		if s != name {
			return nil, fmt.Errorf("%w: free symbol %s", ErrUnsupported, s)
		}
	}
	return compile(e, name)
}

func compile(e Expr, name string) (func(float64) float64, error) {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func(float64) float64 { return c }, nil
	case *Const:
		c := v.value
		return func(float64) float64 { return c }, nil
	case *Sym:
		if v.name != name {
			return nil, fmt.Errorf("%w: free symbol %s", ErrUnsupported, v.name)
		}
		return func(x float64) float64 { return x }, nil
	case *Add:
		terms, err := compileAll(v.terms, name)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			sum := 0.0
			for _, t := range terms {
				sum += t(x)
			}
			return sum
		}, nil
	case *Mul:
		c := v.coeff.Float64()
		factors, err := compileAll(v.factors, name)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 {
			prod := c
			for _, f := range factors {
				prod *= f(x)
			}
			return prod
		}, nil
	case *Pow:
		base, err := compile(v.base, name)
		if err != nil {
			return nil, err
		}
		if n, ok := v.exp.(*Num); ok {
			if isHalf(n) {
				return func(x float64) float64 { return math.Sqrt(base(x)) }, nil
			}
			k := n.Float64()
			return func(x float64) float64 { return math.Pow(base(x), k) }, nil
		}
		exp, err := compile(v.exp, name)
		if err != nil {
			return nil, err
		}
		return func(x float64) float64 { return math.Pow(base(x), exp(x)) }, nil
	case *Func:
		arg, err := compile(v.arg, name)
		if err != nil {
			return nil, err
		}
		fn := funcs[v.name].eval
		return func(x float64) float64 { return fn(arg(x)) }, nil
	case *Integral:
		if Has(v, name) {
			return nil, fmt.Errorf("%w: integral depends on %s", ErrUnsupported, name)
		}
		c, err := Evalf(context.Background(), v)
		if err != nil {
			return nil, err
		}
		return func(float64) float64 { return c }, nil
	}
	return nil, fmt.Errorf("%w: cannot compile %T", ErrUnsupported, e)
}

func compileAll(es []Expr, name string) ([]func(float64) float64, error) {
	out := make([]func(float64) float64, len(es))
	for i, e := range es {
		fn, err := compile(e, name)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}

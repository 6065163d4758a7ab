package symbolic

import (
	"context"
	"math"
)

// Antiderivative returns F with dF/d(name) = e when one of the supported rules
// applies: polynomials, sums, constant multiples, (p*x+q)**n, a**(p*x+q),
// square roots of quadratics with positive leading coefficient,
// sqrt(1 + sinh(u)**2), and sin, cos, exp, sinh, cosh of linear arguments.
func Antiderivative(e Expr, name string) (Expr, bool) {
	x := S(name)
	if !Has(e, name) {
		return MulOf(e, x), true
	}
	if cs, ok := polyCoeffs(e, name); ok {
		terms := make([]Expr, 0, len(cs))
		for i, c := range cs {
			if c.IsZero() {
				continue
			}
			k := N(int64(i + 1))
			terms = append(terms, MulOf(numDiv(c, k), PowOf(x, k)))
		}
		return AddOf(terms...), true
	}

	switch v := e.(type) {
	case *Add:
		parts := make([]Expr, 0, len(v.terms))
		for _, t := range v.terms {
			anti, ok := Antiderivative(t, name)
			if !ok {
				return nil, false
			}
			parts = append(parts, anti)
		}
		return AddOf(parts...), true
	case *Mul:
		consts := []Expr{v.coeff}
		var deps []Expr
		for _, f := range v.factors {
			if Has(f, name) {
				deps = append(deps, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(deps) != 1 {
			return nil, false
		}
		anti, ok := Antiderivative(deps[0], name)
		if !ok {
			return nil, false
		}
		return MulOf(append(consts, anti)...), true
	case *Pow:
		return integratePow(v, name)
	case *Func:
		return integrateFunc(v, name)
	}
	return nil, false
}

// linear matches p*x + q with p != 0.
func linear(e Expr, name string) (p, q *Num, ok bool) {
	cs, ok := polyCoeffs(e, name)
	if !ok || len(cs) != 2 || cs[1].IsZero() {
		return nil, nil, false
	}
	return cs[1], cs[0], true
}

func integratePow(p *Pow, name string) (Expr, bool) {
	if !Has(p.base, name) {
		slope, _, ok := linear(p.exp, name)
		if !ok {
			return nil, false
		}
		return Quo(p, MulOf(slope, FuncOf("log", p.base))), true
	}
	n, ok := p.exp.(*Num)
	if !ok {
		return nil, false
	}
	if slope, _, ok := linear(p.base, name); ok {
		if n.Equal(N(-1)) {
			return MulOf(numRecip(slope), FuncOf("log", FuncOf("abs", p.base))), true
		}
		k := numAdd(n, N(1))
		return MulOf(numRecip(numMul(slope, k)), PowOf(p.base, k)), true
	}
	if !isHalf(n) {
		return nil, false
	}
	if u, ok := sinhSquaredPlusOne(p.base); ok {
		if c, ok := FuncOf("cosh", u).(*Func); ok {
			return integrateFunc(c, name)
		}
	}
	if cs, ok := polyCoeffs(p.base, name); ok && len(cs) == 3 {
		return integrateSqrtQuadratic(cs, name)
	}
	return nil, false
}

// sinhSquaredPlusOne matches sinh(u)**2 + 1 and returns u.
func sinhSquaredPlusOne(e Expr) (Expr, bool) {
	sum, ok := e.(*Add)
	if !ok || len(sum.terms) != 2 || !isOne(sum.terms[1]) {
		return nil, false
	}
	sq, ok := sum.terms[0].(*Pow)
	if !ok || !sq.exp.Equal(N(2)) {
		return nil, false
	}
	f, ok := sq.base.(*Func)
	if !ok || f.name != "sinh" {
		return nil, false
	}
	return f.arg, true
}

// integrateSqrtQuadratic integrates sqrt(a*x**2 + b*x + c), a > 0, from the
// coefficients [c, b, a]:
//
//	(2ax+b)*sqrt(Q)/(4a) + (4ac-b**2)/(8a**(3/2)) * asinh((2ax+b)/sqrt(4ac-b**2))
func integrateSqrtQuadratic(cs []*Num, name string) (Expr, bool) {
	a, b, c := cs[2], cs[1], cs[0]
	if !a.IsPositive() {
		return nil, false
	}
	x := S(name)
	q := polyExpr(cs, name)
	lin := AddOf(MulOf(N(2), a, x), b)
	disc := numAdd(numMul(N(4), numMul(a, c)), numNeg(numMul(b, b)))
	switch {
	case disc.IsPositive():
		first := MulOf(lin, SqrtOf(q), numRecip(numMul(N(4), a)))
		second := MulOf(disc, F(1, 8), PowOf(a, F(-3, 2)),
			FuncOf("asinh", MulOf(lin, PowOf(disc, F(-1, 2)))))
		return AddOf(first, second), true
	case disc.IsZero():
		// Q = a*(x + b/(2a))**2
		u := AddOf(x, numDiv(b, numMul(N(2), a)))
		return MulOf(SqrtOf(a), F(1, 2), u, FuncOf("abs", u)), true
	}
	return nil, false
}

func integrateFunc(f *Func, name string) (Expr, bool) {
	slope, _, ok := linear(f.arg, name)
	if !ok {
		return nil, false
	}
	inv := numRecip(slope)
	switch f.name {
	case "sin":
		return MulOf(numNeg(inv), FuncOf("cos", f.arg)), true
	case "cos":
		return MulOf(inv, FuncOf("sin", f.arg)), true
	case "exp":
		return MulOf(inv, f), true
	case "sinh":
		return MulOf(inv, FuncOf("cosh", f.arg)), true
	case "cosh":
		return MulOf(inv, FuncOf("sinh", f.arg)), true
	}
	return nil, false
}

// DefiniteIntegral integrates integrand with respect to name over
// [lower, upper]. With an antiderivative F the result is F(upper) - F(lower);
// otherwise it is an unevaluated Integral. Reversed bounds give the negated
// value.
func DefiniteIntegral(ctx context.Context, integrand Expr, name string, lower, upper Expr) (Expr, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if lower.Equal(upper) {
		return N(0), nil
	}
	anti, ok := Antiderivative(integrand, name)
	if !ok || poleBetween(integrand, name, lower, upper) {
		return IntegralOf(integrand, name, lower, upper), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return AddOf(anti.Sub(name, upper), Neg(anti.Sub(name, lower))), nil
}

// poleBetween reports whether integrand has a factor (p*x+q)**n, n < 0, whose
// root lies in the closed interval. The fundamental theorem does not apply
// across such a pole.
func poleBetween(integrand Expr, name string, lower, upper Expr) bool {
	lo, err := evalf(context.Background(), lower)
	if err != nil {
		return false
	}
	hi, err := evalf(context.Background(), upper)
	if err != nil {
		return false
	}
	lo, hi = math.Min(lo, hi), math.Max(lo, hi)
	found := false
	var walk func(Expr)
	walk = func(e Expr) {
		switch v := e.(type) {
		case *Add:
			for _, t := range v.terms {
				walk(t)
			}
		case *Mul:
			for _, f := range v.factors {
				walk(f)
			}
		case *Func:
			walk(v.arg)
		case *Pow:
			if n, ok := v.exp.(*Num); ok && n.IsNegative() {
				if p, q, ok := linear(v.base, name); ok {
					root := numDiv(numNeg(q), p).Float64()
					found = found || (root >= lo && root <= hi)
				}
			}
			walk(v.base)
			walk(v.exp)
		}
	}
	walk(integrand)
	return found
}

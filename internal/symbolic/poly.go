package symbolic

const maxPolyDegree = 64

// polyCoeffs returns e as a polynomial in name with rational coefficients,
// lowest degree first. It expands integer powers and products on the way.
func polyCoeffs(e Expr, name string) ([]*Num, bool) {
	switch v := e.(type) {
	case *Num:
		return []*Num{v}, true
	case *Sym:
		if v.name == name {
			return []*Num{N(0), N(1)}, true
		}
	case *Add:
		acc := []*Num{N(0)}
		for _, t := range v.terms {
			p, ok := polyCoeffs(t, name)
			if !ok {
				return nil, false
			}
			acc = polyAdd(acc, p)
		}
		return polyTrim(acc), true
	case *Mul:
		acc := []*Num{v.coeff}
		for _, f := range v.factors {
			p, ok := polyCoeffs(f, name)
			if !ok {
				return nil, false
			}
			acc = polyMul(acc, p)
			if len(acc)-1 > maxPolyDegree {
				return nil, false
			}
		}
		return polyTrim(acc), true
	case *Pow:
		n, ok := v.exp.(*Num)
		if !ok || !n.IsInteger() || n.IsNegative() || !n.val.Num().IsInt64() {
			return nil, false
		}
		k := n.val.Num().Int64()
		base, ok := polyCoeffs(v.base, name)
		if !ok || int64(len(base)-1)*k > maxPolyDegree {
			return nil, false
		}
		acc := []*Num{N(1)}
		for ; k > 0; k-- {
			acc = polyMul(acc, base)
		}
		return polyTrim(acc), true
	}
	return nil, false
}

func polyAdd(a, b []*Num) []*Num {
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]*Num, len(a))
	copy(out, a)
	for i, c := range b {
		out[i] = numAdd(out[i], c)
	}
	return out
}

func polyMul(a, b []*Num) []*Num {
	out := make([]*Num, len(a)+len(b)-1)
	for i := range out {
		out[i] = N(0)
	}
	for i, x := range a {
		if x.IsZero() {
			continue
		}
		for j, y := range b {
			out[i+j] = numAdd(out[i+j], numMul(x, y))
		}
	}
	return out
}

func polyTrim(p []*Num) []*Num {
	for len(p) > 1 && p[len(p)-1].IsZero() {
		p = p[:len(p)-1]
	}
	return p
}

// polyExpr rebuilds c0 + c1*x + c2*x**2 + ...
func polyExpr(cs []*Num, name string) Expr {
	x := S(name)
	terms := make([]Expr, 0, len(cs))
	for i, c := range cs {
		if c.IsZero() {
			continue
		}
		terms = append(terms, MulOf(c, PowOf(x, N(int64(i)))))
	}
	return AddOf(terms...)
}

package symbolic

import "math/big"

// Pow is base**exp.
type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }

func SqrtOf(e Expr) Expr { return PowOf(e, F(1, 2)) }

func (p *Pow) Base() Expr { return p.base }
func (p *Pow) Exp() Expr  { return p.exp }

func (p *Pow) Simplify() Expr {
	base, exp := p.base.Simplify(), p.exp.Simplify()
	en, expNum := exp.(*Num)
	if expNum {
		if en.IsZero() {
			return N(1)
		}
		if en.IsOne() {
			return base
		}
	}
	if bn, ok := base.(*Num); ok {
		if bn.IsOne() {
			return N(1)
		}
		if expNum {
			if r, ok := numPow(bn, en); ok {
				return r
			}
		}
		return &Pow{base: base, exp: exp}
	}
	if !expNum {
		return &Pow{base: base, exp: exp}
	}

	switch b := base.(type) {
	case *Pow:
		inner, ok := b.exp.(*Num)
		if en.IsInteger() || (ok && inner.val.Cmp(big.NewRat(-1, 1)) > 0 && inner.val.Cmp(big.NewRat(1, 1)) <= 0) {
			return PowOf(b.base, MulOf(b.exp, en))
		}
	case *Mul:
		if en.IsInteger() {
			parts := make([]Expr, 0, len(b.factors)+1)
			parts = append(parts, PowOf(b.coeff, en))
			for _, f := range b.factors {
				parts = append(parts, PowOf(f, en))
			}
			return MulOf(parts...)
		}
		if b.coeff.IsPositive() && !b.coeff.IsOne() {
			return MulOf(PowOf(b.coeff, en), PowOf(restOf(b), en))
		}
	case *Func:
		if b.name == "exp" && en.IsInteger() {
			return FuncOf("exp", MulOf(en, b.arg))
		}
	}
	return &Pow{base: base, exp: exp}
}

const maxExactExponent = 512

// numPow folds b**e when the result is rational or a rational multiple of a
// square root of a square-free integer.
func numPow(b, e *Num) (Expr, bool) {
	if b.IsZero() {
		if e.IsPositive() {
			return N(0), true
		}
		return nil, false
	}
	if e.IsInteger() {
		r, ok := ratPowInt(b.val, e.val.Num())
		if !ok {
			return nil, false
		}
		return &Num{val: r}, true
	}
	if e.val.Denom().Cmp(big.NewInt(2)) != 0 || b.IsNegative() {
		return nil, false
	}
	// b**(m/2) = b**((m-1)/2) * sqrt(b)
	k := new(big.Int).Sub(e.val.Num(), big.NewInt(1))
	k.Quo(k, big.NewInt(2))
	whole, ok := ratPowInt(b.val, k)
	if !ok {
		return nil, false
	}
	outside, inside := sqrtRat(b.val)
	c := new(big.Rat).Mul(whole, outside)
	if inside.Cmp(big.NewInt(1)) == 0 {
		return &Num{val: c}, true
	}
	root := &Pow{base: NInt(inside), exp: F(1, 2)}
	if c.Cmp(big.NewRat(1, 1)) == 0 {
		return root, true
	}
	return &Mul{coeff: &Num{val: c}, factors: []Expr{root}}, true
}

func ratPowInt(r *big.Rat, k *big.Int) (*big.Rat, bool) {
	if !k.IsInt64() {
		return nil, false
	}
	n := k.Int64()
	neg := n < 0
	if neg {
		n = -n
	}
	if n > maxExactExponent || int64(r.Num().BitLen()+r.Denom().BitLen())*n > 1<<16 {
		return nil, false
	}
	e := big.NewInt(n)
	num := new(big.Int).Exp(new(big.Int).Abs(r.Num()), e, nil)
	den := new(big.Int).Exp(r.Denom(), e, nil)
	if r.Sign() < 0 && n%2 == 1 {
		num.Neg(num)
	}
	out := new(big.Rat).SetFrac(num, den)
	if neg {
		out.Inv(out)
	}
	return out, true
}

// sqrtRat writes sqrt(r) for r > 0 as outside*sqrt(inside).
func sqrtRat(r *big.Rat) (*big.Rat, *big.Int) {
	// sqrt(p/q) = sqrt(p*q)/q
	n := new(big.Int).Mul(r.Num(), r.Denom())
	s, k := squareFree(n)
	return new(big.Rat).SetFrac(s, r.Denom()), k
}

const trialDivisionLimit = 10000

// squareFree returns s, k with n = s*s*k. k is square-free whenever n fits
// in 64 bits and has at most one prime factor above the trial division limit.
func squareFree(n *big.Int) (*big.Int, *big.Int) {
	if rt := new(big.Int).Sqrt(n); new(big.Int).Mul(rt, rt).Cmp(n) == 0 {
		return rt, big.NewInt(1)
	}
	if !n.IsUint64() {
		return big.NewInt(1), new(big.Int).Set(n)
	}
	v := n.Uint64()
	s, k := uint64(1), uint64(1)
	for d := uint64(2); d <= trialDivisionLimit && d*d <= v; d++ {
		for v%(d*d) == 0 {
			v /= d * d
			s *= d
		}
		if v%d == 0 {
			v /= d
			k *= d
		}
	}
	if rt := new(big.Int).Sqrt(new(big.Int).SetUint64(v)); rt.IsUint64() && rt.Uint64()*rt.Uint64() == v {
		s *= rt.Uint64()
	} else {
		k *= v
	}
	return new(big.Int).SetUint64(s), new(big.Int).SetUint64(k)
}

func isHalf(n *Num) bool { return n.val.Cmp(big.NewRat(1, 2)) == 0 }

func (p *Pow) String() string {
	if n, ok := p.exp.(*Num); ok {
		if isHalf(n) {
			return "sqrt(" + p.base.String() + ")"
		}
		if n.IsNegative() {
			inv := PowOf(p.base, numNeg(n))
			return "1/" + paren(inv.String(), precedence(inv) < precPow)
		}
	}
	return paren(p.base.String(), precedence(p.base) < precAtom) + "**" +
		paren(p.exp.String(), precedence(p.exp) < precAtom)
}

func (p *Pow) LaTeX() string {
	if n, ok := p.exp.(*Num); ok {
		if isHalf(n) {
			return `\sqrt{` + p.base.LaTeX() + `}`
		}
		if n.IsNegative() {
			return `\frac{1}{` + PowOf(p.base, numNeg(n)).LaTeX() + `}`
		}
		if f, ok := p.base.(*Func); ok && n.IsInteger() {
			if s, ok := f.latexPower(n.String()); ok {
				return s
			}
		}
	}
	if c, ok := p.base.(*Const); ok && c == E {
		return "e^{" + p.exp.LaTeX() + "}"
	}
	return latexParen(p.base.LaTeX(), precedence(p.base) < precAtom) + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Sub(name string, value Expr) Expr {
	return PowOf(p.base.Sub(name, value), p.exp.Sub(name, value))
}

func (p *Pow) Diff(name string) Expr {
	db := p.base.Diff(name)
	de := p.exp.Diff(name)
	if isZero(de) {
		if isZero(db) {
			return N(0)
		}
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), db)
	}
	if isZero(db) {
		return MulOf(p, FuncOf("log", p.base), de)
	}
	return MulOf(p, AddOf(
		MulOf(de, FuncOf("log", p.base)),
		MulOf(p.exp, db, PowOf(p.base, N(-1))),
	))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

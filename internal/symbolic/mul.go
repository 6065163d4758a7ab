package symbolic

import (
	"sort"
	"strings"
)

// Mul is coeff times the product of factors. A simplified Mul has a non-zero
// coefficient, factors sorted by text with distinct bases, and never a lone
// factor with coefficient one.
type Mul struct {
	coeff   *Num
	factors []Expr
}

func MulOf(factors ...Expr) Expr { return (&Mul{coeff: N(1), factors: factors}).Simplify() }

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

// Quo returns a/b.
func Quo(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

func (m *Mul) Coeff() *Num     { return m.coeff }
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

func (m *Mul) Simplify() Expr {
	coeff := N(1)
	if m.coeff != nil {
		coeff = m.coeff
	}

	type power struct {
		base Expr
		exps []Expr
	}
	powers := make(map[string]*power)
	var order []string
	push := func(base, exp Expr) {
		key := base.String()
		p, ok := powers[key]
		if !ok {
			p = &power{base: base}
			powers[key] = p
			order = append(order, key)
		}
		p.exps = append(p.exps, exp)
	}
	var collect func(Expr)
	collect = func(e Expr) {
		switch v := e.(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			coeff = numMul(coeff, v.coeff)
			for _, f := range v.factors {
				collect(f)
			}
		case *Pow:
			push(v.base, v.exp)
		default:
			push(e, N(1))
		}
	}
	for _, f := range m.factors {
		collect(f.Simplify())
	}
	if coeff.IsZero() {
		return N(0)
	}

	others := make([]Expr, 0, len(order))
	for _, key := range order {
		p := powers[key]
		exp := p.exps[0]
		if len(p.exps) > 1 {
			exp = AddOf(p.exps...)
		}
		switch v := PowOf(p.base, exp).(type) {
		case *Num:
			coeff = numMul(coeff, v)
		case *Mul:
			coeff = numMul(coeff, v.coeff)
			others = append(others, v.factors...)
		default:
			others = append(others, v)
		}
	}
	if coeff.IsZero() {
		return N(0)
	}
	if len(others) == 0 {
		return coeff
	}
	sort.SliceStable(others, func(i, j int) bool { return others[i].String() < others[j].String() })
	if len(others) == 1 {
		if coeff.IsOne() {
			return others[0]
		}
		// A number times a sum distributes.
		if sum, ok := others[0].(*Add); ok {
			terms := make([]Expr, len(sum.terms))
			for i, t := range sum.terms {
				terms[i] = MulOf(coeff, t)
			}
			return AddOf(terms...)
		}
	}
	return &Mul{coeff: coeff, factors: others}
}

// fraction splits the factors into numerator and denominator parts, the
// latter with their exponent sign flipped.
func (m *Mul) fraction() (num, den []Expr) {
	c := m.coeff.Rat()
	c.Abs(c)
	if !c.Num().IsInt64() || c.Num().Int64() != 1 {
		num = append(num, NInt(c.Num()))
	}
	if !c.IsInt() {
		den = append(den, NInt(c.Denom()))
	}
	for _, f := range m.factors {
		if p, ok := f.(*Pow); ok {
			if n, ok := p.exp.(*Num); ok && n.IsNegative() {
				den = append(den, PowOf(p.base, numNeg(n)))
				continue
			}
		}
		num = append(num, f)
	}
	return num, den
}

func (m *Mul) String() string {
	num, den := m.fraction()
	show := func(parts []Expr) string {
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = paren(p.String(), precedence(p) <= precAdd)
		}
		return strings.Join(out, "*")
	}
	s := show(num)
	if s == "" {
		s = "1"
	}
	if len(den) > 0 {
		s += "/" + paren(show(den), len(den) > 1)
	}
	if m.coeff.IsNegative() {
		s = "-" + s
	}
	return s
}

func (m *Mul) LaTeX() string {
	num, den := m.fraction()
	show := func(parts []Expr) string {
		var sb strings.Builder
		for i, p := range parts {
			s := latexParen(p.LaTeX(), precedence(p) <= precAdd)
			if i > 0 {
				if s != "" && s[0] >= '0' && s[0] <= '9' {
					sb.WriteString(` \cdot `)
				} else {
					sb.WriteString(" ")
				}
			}
			sb.WriteString(s)
		}
		return sb.String()
	}
	s := show(num)
	if len(den) > 0 {
		if s == "" {
			s = "1"
		}
		s = `\frac{` + s + `}{` + show(den) + `}`
	}
	if m.coeff.IsNegative() {
		s = "- " + s
	}
	return s
}

func (m *Mul) Sub(name string, value Expr) Expr {
	out := make([]Expr, 0, len(m.factors)+1)
	out = append(out, m.coeff)
	for _, f := range m.factors {
		out = append(out, f.Sub(name, value))
	}
	return MulOf(out...)
}

func (m *Mul) Diff(name string) Expr {
	var terms []Expr
	for i := range m.factors {
		d := m.factors[i].Diff(name)
		if isZero(d) {
			continue
		}
		parts := make([]Expr, 0, len(m.factors)+1)
		parts = append(parts, m.coeff)
		for j, f := range m.factors {
			if j == i {
				parts = append(parts, d)
			} else {
				parts = append(parts, f)
			}
		}
		terms = append(terms, MulOf(parts...))
	}
	return AddOf(terms...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || !o.coeff.Equal(m.coeff) || len(o.factors) != len(m.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func isZero(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

func isOne(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}

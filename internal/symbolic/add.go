package symbolic

import (
	"sort"
	"strings"
)

// Add is a sum of terms. A simplified Add has at least two terms, no nested
// sums, at most one numeric term (kept last) and no two terms that differ only
// by their numeric coefficient.
type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

// Terms returns the summands.
func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	constant := N(0)
	coeffs := make(map[string]*Num)
	rests := make(map[string]Expr)
	var order []string
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			constant = numAdd(constant, n)
			continue
		}
		c, rest := splitCoeff(t)
		key := rest.String()
		if _, seen := coeffs[key]; !seen {
			order = append(order, key)
			coeffs[key] = N(0)
			rests[key] = rest
		}
		coeffs[key] = numAdd(coeffs[key], c)
	}

	out := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		if c := coeffs[key]; !c.IsZero() {
			out = append(out, scale(c, rests[key]))
		}
	}
	sortTerms(out)
	if !constant.IsZero() {
		out = append(out, constant)
	}
	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

// splitCoeff separates the numeric coefficient of a simplified term.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 1 {
		return m.coeff, m.factors[0]
	}
	return m.coeff, &Mul{coeff: N(1), factors: m.factors}
}

// scale rebuilds c*rest for a rest produced by splitCoeff.
func scale(c *Num, rest Expr) Expr {
	if c.IsOne() {
		return rest
	}
	if m, ok := rest.(*Mul); ok {
		return &Mul{coeff: c, factors: m.factors}
	}
	return &Mul{coeff: c, factors: []Expr{rest}}
}

// sortTerms orders terms by descending polynomial degree, then by text.
func sortTerms(terms []Expr) {
	sort.SliceStable(terms, func(i, j int) bool {
		di, dj := degree(terms[i]), degree(terms[j])
		if di != dj {
			return di > dj
		}
		return terms[i].String() < terms[j].String()
	})
}

func degree(e Expr) float64 {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if n, ok := v.exp.(*Num); ok {
				return n.Float64()
			}
		}
	case *Mul:
		d := 0.0
		for _, f := range v.factors {
			d += degree(f)
		}
		return d
	}
	return 0
}

// negated reports whether e renders with a leading minus, and returns its
// positive counterpart.
func negated(e Expr) (bool, Expr) {
	switch v := e.(type) {
	case *Num:
		if v.IsNegative() {
			return true, numNeg(v)
		}
	case *Mul:
		if v.coeff.IsNegative() {
			return true, scale(numNeg(v.coeff), restOf(v))
		}
	}
	return false, e
}

func restOf(m *Mul) Expr {
	if len(m.factors) == 1 {
		return m.factors[0]
	}
	return &Mul{coeff: N(1), factors: m.factors}
}

func (a *Add) String() string { return a.render(Expr.String) }
func (a *Add) LaTeX() string  { return a.render(Expr.LaTeX) }

func (a *Add) render(show func(Expr) string) string {
	var sb strings.Builder
	for i, t := range a.terms {
		neg, abs := negated(t)
		switch {
		case i == 0 && neg:
			sb.WriteString("-" + show(abs))
		case i == 0:
			sb.WriteString(show(t))
		case neg:
			sb.WriteString(" - " + show(abs))
		default:
			sb.WriteString(" + " + show(t))
		}
	}
	return sb.String()
}

func (a *Add) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Sub(name, value)
	}
	return AddOf(out...)
}

func (a *Add) Diff(name string) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Diff(name)
	}
	return AddOf(out...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(o.terms) != len(a.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

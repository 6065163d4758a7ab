package symbolic

// Integral is an unevaluated definite integral of integrand d(name) over
// [lower, upper]. DefiniteIntegral returns one when no antiderivative rule
// applies; Evalf computes it by quadrature.
type Integral struct {
	integrand    Expr
	name         string
	lower, upper Expr
}

func IntegralOf(integrand Expr, name string, lower, upper Expr) Expr {
	return (&Integral{integrand: integrand, name: name, lower: lower, upper: upper}).Simplify()
}

func (i *Integral) Integrand() Expr      { return i.integrand }
func (i *Integral) Var() string          { return i.name }
func (i *Integral) Bounds() (Expr, Expr) { return i.lower, i.upper }

func (i *Integral) Simplify() Expr {
	lower, upper := i.lower.Simplify(), i.upper.Simplify()
	if lower.Equal(upper) {
		return N(0)
	}
	return &Integral{integrand: i.integrand.Simplify(), name: i.name, lower: lower, upper: upper}
}

func (i *Integral) String() string {
	return "integrate(" + i.integrand.String() + ", " + i.name + ", " +
		i.lower.String() + ", " + i.upper.String() + ")"
}

func (i *Integral) LaTeX() string {
	return `\int\limits_{` + i.lower.LaTeX() + `}^{` + i.upper.LaTeX() + `} ` +
		i.integrand.LaTeX() + `\, d` + S(i.name).LaTeX()
}

func (i *Integral) Sub(name string, value Expr) Expr {
	integrand := i.integrand
	if name != i.name {
		integrand = integrand.Sub(name, value)
	}
	return IntegralOf(integrand, i.name, i.lower.Sub(name, value), i.upper.Sub(name, value))
}

func (i *Integral) Diff(name string) Expr {
	if !Has(i, name) {
		return N(0)
	}
	panic(unsupported{"cannot differentiate an unevaluated integral with respect to " + name})
}

func (i *Integral) Equal(other Expr) bool {
	o, ok := other.(*Integral)
	return ok && o.name == i.name && i.integrand.Equal(o.integrand) &&
		i.lower.Equal(o.lower) && i.upper.Equal(o.upper)
}

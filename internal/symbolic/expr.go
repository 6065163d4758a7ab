// Package symbolic is a small exact-arithmetic computer algebra kernel.
//
// Expressions are immutable trees built through canonicalising constructors
// (AddOf, MulOf, PowOf, FuncOf). Numbers are exact big.Rat values; functions
// of numeric arguments stay symbolic unless they have an exact special value.
// The kernel parses formulas, differentiates them, integrates the families
// produced by arc-length integrands, renders LaTeX, and compiles trees into
// float64 evaluators.
package symbolic

import (
	"math"
	"math/big"
	"strings"
)

// Expr is a node of an expression tree.
type Expr interface {
	Simplify() Expr
	// String renders re-parseable text using ** for powers.
	String() string
	LaTeX() string
	Sub(name string, value Expr) Expr
	Diff(name string) Expr
	Equal(other Expr) bool
}

const (
	precAdd = iota + 1
	precMul
	precPow
	precAtom
)

// precedence is the binding strength of e's rendered form.
func precedence(e Expr) int {
	switch v := e.(type) {
	case *Add:
		return precAdd
	case *Mul:
		return precMul
	case *Num:
		if v.IsNegative() {
			return precAdd
		}
		if !v.IsInteger() {
			return precMul
		}
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsNegative() {
			return precMul
		}
		return precPow
	}
	return precAtom
}

func paren(s string, wrap bool) string {
	if wrap {
		return "(" + s + ")"
	}
	return s
}

func latexParen(s string, wrap bool) string {
	if wrap {
		return `\left(` + s + `\right)`
	}
	return s
}

// ------------------------------------------------------------------
// Num
// ------------------------------------------------------------------

// Num is an exact rational number.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic(unsupported{"denominator is zero"})
	}
	return &Num{val: new(big.Rat).SetFrac64(p, q)}
}

func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func NInt(i *big.Int) *Num { return &Num{val: new(big.Rat).SetInt(i)} }

// NumFromText converts decimal text ("0.1", "2.5e-3", "-7") into an exact
// rational. Text that big.Rat rejects but strconv accepts is converted
// through its float64 value.
func NumFromText(text string) (*Num, error) {
	text = strings.TrimSpace(text)
	if r, ok := new(big.Rat).SetString(text); ok {
		return &Num{val: r}, nil
	}
	f, err := parseFloat(text)
	if err != nil {
		return nil, err
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}, nil
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	if n.val.Sign() < 0 {
		sign = "- "
	}
	num := new(big.Int).Abs(n.val.Num())
	return sign + `\frac{` + num.String() + `}{` + n.val.Denom().String() + `}`
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }

func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic(unsupported{"division by zero"})
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}

func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }

// ------------------------------------------------------------------
// Sym
// ------------------------------------------------------------------

// Sym is a named variable.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string          { return s.name }
func (s *Sym) Simplify() Expr        { return s }
func (s *Sym) String() string        { return s.name }
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && o.name == s.name }

func (s *Sym) LaTeX() string {
	if g, ok := greek[s.name]; ok {
		return g
	}
	return s.name
}

func (s *Sym) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

var greek = map[string]string{
	"alpha": `\alpha`, "beta": `\beta`, "gamma": `\gamma`, "delta": `\delta`,
	"theta": `\theta`, "lambda": `\lambda`, "mu": `\mu`, "phi": `\phi`,
	"rho": `\rho`, "sigma": `\sigma`, "tau": `\tau`, "omega": `\omega`,
}

// ------------------------------------------------------------------
// Const
// ------------------------------------------------------------------

// Const is a named irrational constant.
type Const struct {
	name  string
	latex string
	value float64
}

var (
	Pi = &Const{name: "pi", latex: `\pi`, value: math.Pi}
	E  = &Const{name: "E", latex: "e", value: math.E}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) String() string        { return c.name }
func (c *Const) LaTeX() string         { return c.latex }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && o.name == c.name }
func (c *Const) Float64() float64      { return c.value }

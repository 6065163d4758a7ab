package symbolic

import (
	"math"
	"math/big"
)

// Func is a named elementary function applied to one argument.
type Func struct {
	name string
	arg  Expr
}

type funcSpec struct {
	eval    func(float64) float64
	command string
	// parity is +1 for even and -1 for odd functions.
	parity int
	atZero *Num
	// deriv is the derivative with respect to the argument.
	deriv func(u Expr) Expr
}

var funcs map[string]funcSpec

func init() {
	funcs = map[string]funcSpec{
		"sin": {eval: math.Sin, command: `\sin`, parity: -1, atZero: N(0),
			deriv: func(u Expr) Expr { return FuncOf("cos", u) }},
		"cos": {eval: math.Cos, command: `\cos`, parity: 1, atZero: N(1),
			deriv: func(u Expr) Expr { return Neg(FuncOf("sin", u)) }},
		"tan": {eval: math.Tan, command: `\tan`, parity: -1, atZero: N(0),
			deriv: func(u Expr) Expr { return AddOf(N(1), PowOf(FuncOf("tan", u), N(2))) }},
		"exp": {eval: math.Exp, atZero: N(1),
			deriv: func(u Expr) Expr { return FuncOf("exp", u) }},
		"log": {eval: math.Log, command: `\log`,
			deriv: func(u Expr) Expr { return PowOf(u, N(-1)) }},
		"asin": {eval: math.Asin, command: `\operatorname{asin}`, parity: -1, atZero: N(0),
			deriv: func(u Expr) Expr { return PowOf(AddOf(N(1), Neg(PowOf(u, N(2)))), F(-1, 2)) }},
		"acos": {eval: math.Acos, command: `\operatorname{acos}`,
			deriv: func(u Expr) Expr { return Neg(PowOf(AddOf(N(1), Neg(PowOf(u, N(2)))), F(-1, 2))) }},
		"atan": {eval: math.Atan, command: `\operatorname{atan}`, parity: -1, atZero: N(0),
			deriv: func(u Expr) Expr { return PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1)) }},
		"sinh": {eval: math.Sinh, command: `\sinh`, parity: -1, atZero: N(0),
			deriv: func(u Expr) Expr { return FuncOf("cosh", u) }},
		"cosh": {eval: math.Cosh, command: `\cosh`, parity: 1, atZero: N(1),
			deriv: func(u Expr) Expr { return FuncOf("sinh", u) }},
		"tanh": {eval: math.Tanh, command: `\tanh`, parity: -1, atZero: N(0),
			deriv: func(u Expr) Expr { return AddOf(N(1), Neg(PowOf(FuncOf("tanh", u), N(2)))) }},
		"asinh": {eval: math.Asinh, command: `\operatorname{asinh}`, parity: -1, atZero: N(0),
			deriv: func(u Expr) Expr { return PowOf(AddOf(PowOf(u, N(2)), N(1)), F(-1, 2)) }},
		"abs": {eval: math.Abs, parity: 1,
			deriv: func(u Expr) Expr { return FuncOf("sign", u) }},
		"sign": {eval: sign, command: `\operatorname{sign}`, parity: -1, atZero: N(0),
			deriv: func(Expr) Expr { return N(0) }},
	}
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	case x == 0:
		return 0
	}
	return math.NaN()
}

// IsFunc reports whether name is a known function.
func IsFunc(name string) bool {
	_, ok := funcs[name]
	return ok
}

// FuncOf applies a known function. Unknown names panic with an unsupported
// error; Parse never produces them.
func FuncOf(name string, arg Expr) Expr {
	if !IsFunc(name) {
		panic(unsupported{"unknown function " + name})
	}
	return (&Func{name: name, arg: arg}).Simplify()
}

func (f *Func) Name() string { return f.name }
func (f *Func) Arg() Expr    { return f.arg }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	fs := funcs[f.name]
	if n, ok := arg.(*Num); ok {
		switch {
		case n.IsZero() && fs.atZero != nil:
			return fs.atZero
		case n.IsOne() && (f.name == "log" || f.name == "acos"):
			return N(0)
		case f.name == "abs":
			return &Num{val: new(big.Rat).Abs(n.val)}
		case f.name == "sign":
			return N(int64(n.val.Sign()))
		}
	}
	if c, ok := arg.(*Const); ok && c == E && f.name == "log" {
		return N(1)
	}
	if inner, ok := arg.(*Func); ok {
		if (f.name == "exp" && inner.name == "log") || (f.name == "log" && inner.name == "exp") {
			return inner.arg
		}
	}
	if fs.parity != 0 {
		if neg, pos := negated(arg); neg {
			if fs.parity > 0 {
				return FuncOf(f.name, pos)
			}
			return Neg(FuncOf(f.name, pos))
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.name {
	case "exp":
		return "e^{" + arg + "}"
	case "abs":
		return `\left|{` + arg + `}\right|`
	}
	return funcs[f.name].command + `{\left(` + arg + ` \right)}`
}

// latexPower renders f**exp the way \sin^{2}{\left(x \right)} is written.
func (f *Func) latexPower(exp string) (string, bool) {
	if f.name == "exp" || f.name == "abs" {
		return "", false
	}
	return funcs[f.name].command + "^{" + exp + `}{\left(` + f.arg.LaTeX() + ` \right)}`, true
}

func (f *Func) Sub(name string, value Expr) Expr { return FuncOf(f.name, f.arg.Sub(name, value)) }

func (f *Func) Diff(name string) Expr {
	du := f.arg.Diff(name)
	if isZero(du) {
		return N(0)
	}
	return MulOf(funcs[f.name].deriv(f.arg), du)
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && o.name == f.name && f.arg.Equal(o.arg)
}

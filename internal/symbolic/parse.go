package symbolic

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNum
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// aliases maps alternative spellings onto kernel function names.
var aliases = map[string]string{
	"ln":      "log",
	"sen":     "sin",
	"arcsin":  "asin",
	"arccos":  "acos",
	"arctan":  "atan",
	"arcsinh": "asinh",
	"Abs":     "abs",
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i < len(src) && src[i] == '.' {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < len(src) && isDigit(src[j]) {
					for i = j; i < len(src) && isDigit(src[i]); i++ {
					}
				}
			}
			toks = append(toks, token{kind: tokNum, text: src[start:i], pos: start})
		case isLetter(c) || c == '_':
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i]) || src[i] == '_') {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c == '*' && i+1 < len(src) && src[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**", pos: i})
			i += 2
		case strings.IndexByte("+-*/^", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma, text: ",", pos: i})
			i++
		case strings.HasPrefix(src[i:], "π"):
			toks = append(toks, token{kind: tokIdent, text: "pi", pos: i})
			i += len("π")
		default:
			r, _ := utf8.DecodeRuneInString(src[i:])
			return nil, syntaxErrorf(i, "unexpected character %q", r)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

type parser struct {
	toks []token
	pos  int
}

// Parse reads a formula such as "x^2 + sin(2*x)/3". Numeric literals become
// exact rationals ("0.1" is 1/10), ^ and ** both denote powers, pi and E are
// constants, and every other identifier is a variable.
func Parse(src string) (e Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			u, ok := r.(unsupported)
			if !ok {
				panic(r)
			}
			e, err = nil, fmt.Errorf("%w: %s", ErrSyntax, u.msg)
		}
	}()
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrSyntax)
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err = p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, syntaxErrorf(t.pos, "unexpected %q", t.text)
	}
	return e, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) peekOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) expr() (Expr, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.peekOp("+", "-") {
		op := p.next()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			right = Neg(right)
		}
		left = AddOf(left, right)
	}
	return left, nil
}

func (p *parser) term() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.peekOp("*", "/") {
		op := p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "/" {
			left = Quo(left, right)
		} else {
			left = MulOf(left, right)
		}
	}
	return left, nil
}

// unary binds looser than power, so -x^2 is -(x^2).
func (p *parser) unary() (Expr, error) {
	if p.peekOp("-", "+") {
		op := p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op.text == "-" {
			return Neg(x), nil
		}
		return x, nil
	}
	return p.power()
}

func (p *parser) power() (Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.peekOp("^", "**") {
		return base, nil
	}
	p.next()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) primary() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		text := t.text
		if strings.HasPrefix(text, ".") {
			text = "0" + text
		}
		n, err := NumFromText(text)
		if err != nil {
			return nil, syntaxErrorf(t.pos, "invalid number %q", t.text)
		}
		return n, nil
	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.call(t)
		}
		switch t.text {
		case "pi":
			return Pi, nil
		case "E":
			return E, nil
		}
		if isCallable(t.text) {
			return nil, syntaxErrorf(t.pos, "function %s needs an argument", t.text)
		}
		return S(t.text), nil
	case tokLParen:
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, syntaxErrorf(c.pos, "expected ')'")
		}
		return e, nil
	case tokEOF:
		return nil, syntaxErrorf(t.pos, "unexpected end of input")
	}
	return nil, syntaxErrorf(t.pos, "unexpected %q", t.text)
}

func isCallable(name string) bool {
	if _, ok := aliases[name]; ok {
		return true
	}
	return name == "sqrt" || name == "integrate" || IsFunc(name)
}

func (p *parser) call(name token) (Expr, error) {
	p.next()
	var args []Expr
	if p.peek().kind != tokRParen {
		for {
			a, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if c := p.next(); c.kind != tokRParen {
		return nil, syntaxErrorf(c.pos, "expected ')'")
	}

	fn := name.text
	if alias, ok := aliases[fn]; ok {
		fn = alias
	}
	arity := func(n int) error {
		if len(args) != n {
			return syntaxErrorf(name.pos, "%s takes %d argument(s), got %d", fn, n, len(args))
		}
		return nil
	}
	switch {
	case fn == "sqrt":
		if err := arity(1); err != nil {
			return nil, err
		}
		return SqrtOf(args[0]), nil
	case fn == "integrate":
		if err := arity(4); err != nil {
			return nil, err
		}
		v, ok := args[1].(*Sym)
		if !ok {
			return nil, syntaxErrorf(name.pos, "integration variable must be a symbol, got %s", args[1])
		}
		return IntegralOf(args[0], v.name, args[2], args[3]), nil
	case fn == "log" && len(args) == 2:
		return Quo(FuncOf("log", args[0]), FuncOf("log", args[1])), nil
	case IsFunc(fn):
		if err := arity(1); err != nil {
			return nil, err
		}
		return FuncOf(fn, args[0]), nil
	}
	return nil, syntaxErrorf(name.pos, "unknown function %s", name.text)
}

func parseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: invalid number %q", ErrSyntax, text)
	}
	return f, nil
}

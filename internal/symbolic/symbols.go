package symbolic

import "sort"

// FreeSymbols returns the sorted names of the variables in e. Constants and
// integration variables bound by an Integral are not free.
func FreeSymbols(e Expr) []string {
	set := make(map[string]struct{})
	collectSymbols(e, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Has reports whether name occurs free in e.
func Has(e Expr, name string) bool {
	set := make(map[string]struct{})
	collectSymbols(e, set)
	_, ok := set[name]
	return ok
}

func collectSymbols(e Expr, set map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		set[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, set)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, set)
		}
	case *Pow:
		collectSymbols(v.base, set)
		collectSymbols(v.exp, set)
	case *Func:
		collectSymbols(v.arg, set)
	case *Integral:
		inner := make(map[string]struct{})
		collectSymbols(v.integrand, inner)
		delete(inner, v.name)
		for name := range inner {
			set[name] = struct{}{}
		}
		collectSymbols(v.lower, set)
		collectSymbols(v.upper, set)
	}
}

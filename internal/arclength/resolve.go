package arclength

import "strings"

// ResolveVariable picks the variable of a single-variable function. A
// constant expression uses the engine's default symbol.
func ResolveVariable(eng Engine, expr Expr) (string, error) {
	free := eng.FreeSymbols(expr)
	switch len(free) {
	case 0:
		return eng.DefaultSymbol(), nil
	case 1:
		return free[0], nil
	}
	err := NewError(KindAmbiguousVariable,
		"la función debe tener solo una variable, pero se encontraron: %s", strings.Join(free, ", "))
	err.Variables = free
	return "", err
}

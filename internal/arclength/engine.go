package arclength

import "context"

// Expr is an expression owned by an Engine. The pipeline never looks inside
// one; it only passes values back to the engine that produced them.
type Expr interface {
	String() string
}

// Evaluator is a compiled real function of one variable. It returns NaN or
// an infinity where the function is undefined.
type Evaluator func(x float64) float64

// Engine is the symbolic capability the pipeline is built on. Engines must be
// safe for concurrent use.
type Engine interface {
	// Parse reads user formula text.
	Parse(src string) (Expr, error)
	// FreeSymbols lists the variable names in e, sorted.
	FreeSymbols(e Expr) []string
	// DefaultSymbol names the variable used when an expression has none.
	DefaultSymbol() string

	// Number builds an exact numeric constant from decimal text.
	Number(text string) (Expr, error)
	Diff(e Expr, v string) (Expr, error)
	Add(a, b Expr) (Expr, error)
	Pow(base, exp Expr) (Expr, error)
	Sqrt(e Expr) (Expr, error)

	// DefiniteIntegral integrates integrand with respect to v between the
	// exact bounds. The result may itself be an unevaluated integral.
	DefiniteIntegral(ctx context.Context, integrand Expr, v string, lower, upper Expr) (Expr, error)
	// Evalf reduces a closed expression to a finite real number.
	Evalf(ctx context.Context, e Expr) (float64, error)

	LaTeX(e Expr) string
	Compile(e Expr, v string) (Evaluator, error)
}

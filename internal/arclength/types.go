package arclength

// Interval is a closed real interval. Both bounds are finite. The text
// fields keep the bounds exactly as supplied; they are typeset in the
// derivation and converted to exact rationals for integration.
type Interval struct {
	Lower     float64
	Upper     float64
	LowerText string
	UpperText string
}

// Degenerate reports whether the interval has zero width.
func (iv Interval) Degenerate() bool { return iv.Lower == iv.Upper }

// GraphPoint is one finite sample of the input function.
type GraphPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Derivation carries the symbolic working of one computation.
type Derivation struct {
	Variable   string
	Display    string
	Derivative Expr
	Squared    Expr
	Integrand  Expr
	Steps      []string

	// Set by EvaluateIntegral.
	Exact   Expr
	Numeric float64
}

// Result is a completed computation.
type Result struct {
	Variable  string       `json:"variable"`
	Numeric   float64      `json:"numeric"`
	Exact     string       `json:"exact"`
	Integrand string       `json:"integrand"`
	Steps     []string     `json:"steps"`
	Display   string       `json:"display"`
	Area      []GraphPoint `json:"area"`
	Curve     []GraphPoint `json:"curve"`
}

// Request is a raw computation request.
type Request struct {
	Function   string
	LowerBound string
	UpperBound string
}

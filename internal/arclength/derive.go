package arclength

import (
	"fmt"
	"strconv"
)

// BuildDerivation forms f', (f')^2 and the integrand sqrt(1 + (f')^2),
// recording a typeset step after each stage. Steps 1 to 5 are produced here;
// EvaluateIntegral appends the sixth.
func BuildDerivation(eng Engine, expr Expr, v string, iv Interval) (*Derivation, error) {
	fail := func(err error, stage string) error {
		return WrapError(KindSymbolicComputation, err, "no se pudo calcular %s de %s", stage, expr)
	}

	d := &Derivation{Variable: v}
	d.Display = fmt.Sprintf("f(%s) = %s", v, eng.LaTeX(expr))
	d.Steps = append(d.Steps, "Función: $"+d.Display+"$")

	deriv, err := eng.Diff(expr, v)
	if err != nil {
		return nil, fail(err, "la derivada")
	}
	d.Derivative = deriv
	d.Steps = append(d.Steps, fmt.Sprintf("Derivada: $f'(%s) = %s$", v, eng.LaTeX(deriv)))

	two, err := eng.Number("2")
	if err != nil {
		return nil, fail(err, "el cuadrado de la derivada")
	}
	squared, err := eng.Pow(deriv, two)
	if err != nil {
		return nil, fail(err, "el cuadrado de la derivada")
	}
	d.Squared = squared
	squaredTeX := eng.LaTeX(squared)
	d.Steps = append(d.Steps, fmt.Sprintf("Derivada al cuadrado: $[f'(%s)]^2 = %s$", v, squaredTeX))

	one, err := eng.Number("1")
	if err != nil {
		return nil, fail(err, "el integrando")
	}
	sum, err := eng.Add(one, squared)
	if err != nil {
		return nil, fail(err, "el integrando")
	}
	integrand, err := eng.Sqrt(sum)
	if err != nil {
		return nil, fail(err, "el integrando")
	}
	d.Integrand = integrand
	d.Steps = append(d.Steps, fmt.Sprintf(`Integrando: $\sqrt{1 + %s}$`, squaredTeX))
	d.Steps = append(d.Steps, fmt.Sprintf(`Integral a resolver: $L = \int_{%s}^{%s} %s \, d%s$`,
		boundText(iv.LowerText, iv.Lower), boundText(iv.UpperText, iv.Upper), eng.LaTeX(integrand), v))
	return d, nil
}

// boundText is the bound as supplied, or its shortest decimal form when the
// interval was built without text.
func boundText(text string, v float64) string {
	if text != "" {
		return text
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

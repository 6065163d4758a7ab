package arclength

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// EvaluateIntegral computes the definite integral of d.Integrand over iv and
// its numeric value, bounded by timeout. On success it sets d.Exact and
// d.Numeric and appends the final derivation step. A non-positive timeout
// disables the bound.
func EvaluateIntegral(ctx context.Context, eng Engine, d *Derivation, iv Interval, timeout time.Duration) error {
	lowerText, upperText := boundText(iv.LowerText, iv.Lower), boundText(iv.UpperText, iv.Upper)
	lower, err := eng.Number(lowerText)
	if err != nil {
		return WrapError(KindInvalidInput, err, "el límite inferior %q no es un número válido", lowerText)
	}
	upper, err := eng.Number(upperText)
	if err != nil {
		return WrapError(KindInvalidInput, err, "el límite superior %q no es un número válido", upperText)
	}

	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	type outcome struct {
		exact   Expr
		value   float64
		err     error
		numeric bool // err came from Evalf
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("engine panic: %v", r)}
			}
		}()
		exact, err := eng.DefiniteIntegral(ctx, d.Integrand, d.Variable, lower, upper)
		if err != nil {
			done <- outcome{err: err}
			return
		}
		value, err := eng.Evalf(ctx, exact)
		done <- outcome{exact: exact, value: value, err: err, numeric: true}
	}()

	var o outcome
	select {
	case <-ctx.Done():
		return timeoutError(ctx.Err(), timeout)
	case o = <-done:
	}

	switch {
	case o.err != nil && (errors.Is(o.err, context.DeadlineExceeded) || errors.Is(o.err, context.Canceled)):
		return timeoutError(o.err, timeout)
	case o.err != nil && o.numeric:
		return WrapError(KindDivergentIntegral, o.err,
			"la integral no tiene un valor real finito en [%s, %s]", lowerText, upperText)
	case o.err != nil:
		return WrapError(KindSymbolicComputation, o.err, "no se pudo integrar %s", d.Integrand)
	case math.IsNaN(o.value) || math.IsInf(o.value, 0):
		return NewError(KindDivergentIntegral,
			"la integral no tiene un valor real finito en [%s, %s]", lowerText, upperText)
	}

	d.Exact = o.exact
	d.Numeric = o.value
	d.Steps = append(d.Steps, fmt.Sprintf("Resultado exacto: $L = %s$", eng.LaTeX(o.exact)))
	return nil
}

func timeoutError(cause error, timeout time.Duration) error {
	if timeout <= 0 {
		return WrapError(KindComputationTimeout, cause, "el cálculo de la integral fue cancelado")
	}
	return WrapError(KindComputationTimeout, cause, "la integral excedió el tiempo límite de %s", timeout)
}

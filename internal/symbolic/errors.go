package symbolic

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("symbolic: syntax error")

	// ErrUnsupported marks operations the kernel cannot carry out, such as
	// differentiating an unevaluated integral with respect to one of its bounds.
	ErrUnsupported = errors.New("symbolic: unsupported operation")

	// ErrNotReal is returned when a numeric evaluation is NaN, infinite, or
	// still contains free symbols.
	ErrNotReal = errors.New("symbolic: value is not a finite real number")

	// ErrDivergent is returned when quadrature estimates do not settle.
	ErrDivergent = errors.New("symbolic: integral does not converge")
)

// unsupported is panicked from inside tree methods whose signatures cannot
// return an error. Engine recovers it.
type unsupported struct{ msg string }

func (u unsupported) Error() string { return u.msg }

func syntaxErrorf(pos int, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, pos, fmt.Sprintf(format, args...))
}

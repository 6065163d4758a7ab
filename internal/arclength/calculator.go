package arclength

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds symbolic integration when no WithTimeout is given.
const DefaultTimeout = 10 * time.Second

// Calculator runs the arc-length pipeline: parse, resolve the variable,
// derive, integrate, sample. It is safe for concurrent use.
type Calculator struct {
	engine  Engine
	timeout time.Duration
	log     *zap.Logger
	// sem caps concurrent integrations; nil means unbounded.
	sem chan struct{}
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTimeout sets the integration time limit. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Calculator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Calculator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMaxConcurrent caps the number of integrations running at once.
func WithMaxConcurrent(n int) Option {
	return func(c *Calculator) {
		if n > 0 {
			c.sem = make(chan struct{}, n)
		}
	}
}

func NewCalculator(engine Engine, opts ...Option) *Calculator {
	c := &Calculator{
		engine:  engine,
		timeout: DefaultTimeout,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the integration time limit.
func (c *Calculator) Timeout() time.Duration { return c.timeout }

// ParseInterval validates bound text. Both bounds must be finite numbers;
// a > b is allowed.
func ParseInterval(a, b string) (Interval, error) {
	lower, lowerText, err := parseBound(a, "inferior")
	if err != nil {
		return Interval{}, err
	}
	upper, upperText, err := parseBound(b, "superior")
	if err != nil {
		return Interval{}, err
	}
	return Interval{Lower: lower, Upper: upper, LowerText: lowerText, UpperText: upperText}, nil
}

func parseBound(text, which string) (float64, string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, "", NewError(KindInvalidInput, "falta el límite %s", which)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, "", WrapError(KindInvalidInput, err, "el límite %s %q no es un número válido", which, text)
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, "", NewError(KindInvalidInput, "el límite %s %q debe ser un número finito", which, text)
	}
	return v, text, nil
}

// Compute runs one request end to end. Every failure is an *Error.
func (c *Calculator) Compute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	src := strings.TrimSpace(req.Function)
	if src == "" {
		return nil, NewError(KindInvalidInput, "la función está vacía")
	}
	iv, err := ParseInterval(req.LowerBound, req.UpperBound)
	if err != nil {
		return nil, err
	}

	expr, err := c.engine.Parse(src)
	if err != nil {
		return nil, WrapError(KindSymbolicComputation, err, "no se pudo interpretar la función %q", src)
	}
	v, err := ResolveVariable(c.engine, expr)
	if err != nil {
		return nil, err
	}
	log := c.log.With(zap.String("function", src), zap.String("variable", v))

	d, err := BuildDerivation(c.engine, expr, v, iv)
	if err != nil {
		return nil, err
	}
	log.Debug("derivation built", zap.Stringer("integrand", d.Integrand))

	if err := c.acquire(ctx); err != nil {
		return nil, err
	}
	err = EvaluateIntegral(ctx, c.engine, d, iv, c.timeout)
	c.release()
	if err != nil {
		log.Debug("integration failed", zap.Error(err))
		return nil, err
	}

	area, curve, err := Sample(c.engine, expr, v, iv)
	if err != nil {
		return nil, err
	}

	log.Info("arc length computed",
		zap.Float64("length", d.Numeric),
		zap.Int("area_points", len(area)),
		zap.Int("curve_points", len(curve)),
		zap.Duration("duration", time.Since(start)),
	)
	return &Result{
		Variable:  v,
		Numeric:   d.Numeric,
		Exact:     d.Exact.String(),
		Integrand: d.Integrand.String(),
		Steps:     d.Steps,
		Display:   d.Display,
		Area:      area,
		Curve:     curve,
	}, nil
}

func (c *Calculator) acquire(ctx context.Context) error {
	if c.sem == nil {
		return nil
	}
	select {
	case c.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return WrapError(KindComputationTimeout, ctx.Err(), "el cálculo fue cancelado antes de comenzar")
	}
}

func (c *Calculator) release() {
	if c.sem != nil {
		<-c.sem
	}
}

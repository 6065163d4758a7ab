package symbolic

import (
	"math"
	"math/big"
)

// scaled is frac * 2**exp with frac in [0.5, 1) or zero, NaN or ±Inf.
// Exact rationals such as 10**320 + 4 stay representable while a closed form
// is evaluated; only the final value must fit in a float64.
type scaled struct {
	frac float64
	exp  int
}

// maxFloatExp keeps math.Pow operands and results well inside float64 range.
const maxFloatExp = 1000

const minNormal = 0x1p-1022

func scaledOf(f float64) scaled { return norm(f, 0) }

// norm returns fr * 2**e in normal form.
func norm(fr float64, e int) scaled {
	f, de := math.Frexp(fr)
	return scaled{frac: f, exp: e + de}
}

func scaledRat(r *big.Rat) scaled {
	if r.Sign() == 0 {
		return scaled{}
	}
	if f, _ := r.Float64(); math.Abs(f) >= minNormal && !math.IsInf(f, 0) {
		return scaledOf(f)
	}
	var mant big.Float
	e := new(big.Float).SetRat(r).MantExp(&mant)
	fr, _ := mant.Float64()
	return scaled{frac: fr, exp: e}
}

func (s scaled) float() float64 { return math.Ldexp(s.frac, s.exp) }

func (s scaled) finite() bool { return !math.IsNaN(s.frac) && !math.IsInf(s.frac, 0) }

func (s scaled) log2() float64 { return math.Log2(math.Abs(s.frac)) + float64(s.exp) }

func (s scaled) mul(o scaled) scaled {
	return norm(s.frac*o.frac, s.exp+o.exp)
}

func (s scaled) add(o scaled) scaled {
	if s.frac == 0 {
		return o
	}
	if o.frac == 0 {
		return s
	}
	if !s.finite() || !o.finite() {
		return scaledOf(s.frac + o.frac)
	}
	e := max(s.exp, o.exp)
	sum := norm(math.Ldexp(s.frac, s.exp-e)+math.Ldexp(o.frac, o.exp-e), e)
	if sum.frac == 0 {
		return scaled{}
	}
	return sum
}

func (s scaled) sqrt() scaled {
	if s.frac <= 0 || !s.finite() {
		return scaledOf(math.Sqrt(s.float()))
	}
	fr, e := s.frac, s.exp
	if e%2 != 0 {
		fr, e = fr*2, e-1
	}
	return norm(math.Sqrt(fr), e/2)
}

func (s scaled) pow(k float64) scaled {
	if s.frac == 0 || !s.finite() || math.IsNaN(k) || math.IsInf(k, 0) {
		return scaledOf(math.Pow(s.float(), k))
	}
	l := k * s.log2()
	if absInt(s.exp) < maxFloatExp && math.Abs(l) < maxFloatExp {
		return scaledOf(math.Pow(s.float(), k))
	}
	sign := 1.0
	if s.frac < 0 {
		if k != math.Trunc(k) {
			return scaledOf(math.NaN())
		}
		if math.Mod(k, 2) != 0 {
			sign = -1
		}
	}
	switch {
	case l > math.MaxInt32:
		return scaledOf(math.Inf(int(sign)))
	case l < math.MinInt32:
		return scaled{}
	}
	whole := math.Floor(l)
	return norm(sign*math.Exp2(l-whole), int(whole))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package protocol

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatDouble renders v the way the tracker expects doubles: always with a
// fractional part ("0.0", "12.5") and in E notation outside [1e-3, 1e7).
func FormatDouble(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(v)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, 64), "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}

// roundingPrecision holds any float64 scaled by a small power of ten plus a
// half exactly.
const roundingPrecision = 2048

// FormatArenaValue rounds the exact binary value of v half-up (away from
// zero) to one decimal.
func FormatArenaValue(v float64) string { return RoundHalfUp(v, 1) }

// RoundHalfUp renders the exact binary value of v rounded half-up (away
// from zero) to scale decimals.
func RoundHalfUp(v float64, scale int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return FormatDouble(v)
	}
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	x := new(big.Float).SetPrec(roundingPrecision).SetFloat64(math.Abs(v))
	x.Mul(x, new(big.Float).SetInt(unit))
	x.Add(x, big.NewFloat(0.5))
	scaled, _ := x.Int(nil)

	q, r := new(big.Int).QuoRem(scaled, unit, new(big.Int))
	s := q.String()
	if scale > 0 {
		frac := r.String()
		s += "." + strings.Repeat("0", scale-len(frac)) + frac
	}
	if v < 0 && scaled.Sign() != 0 {
		s = "-" + s
	}
	return s
}

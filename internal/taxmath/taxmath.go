// Package taxmath holds the shared money arithmetic for the tax engine.
// All amounts are int64 cents. Rounding happens once per computed tax
// line, through RoundCents, so per-period amounts never drift from
// aggregate recomputation when summed across periods.
package taxmath

import "math"

// RoundCents rounds a fractional cent amount to the nearest cent.
func RoundCents(v float64) int64 {
	return int64(math.Round(v))
}

// PercentOf applies a rate to an amount of cents and rounds the result.
func PercentOf(cents int64, rate float64) int64 {
	if cents <= 0 || rate <= 0 {
		return 0
	}
	return RoundCents(float64(cents) * rate)
}

// CappedTaxable returns the portion of periodWages subject to a tax with
// an annual wage base. ytdBefore is the employee's taxed wages for the
// year before this period; once the cap is reached the result is zero.
func CappedTaxable(periodWages, ytdBefore, cap int64) int64 {
	if periodWages <= 0 {
		return 0
	}
	remaining := cap - ytdBefore
	if remaining <= 0 {
		return 0
	}
	if periodWages < remaining {
		return periodWages
	}
	return remaining
}

// Clamp0 floors a cents amount at zero.
func Clamp0(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

package counter

import (
	"math"
	"math/big"
	"strings"
)

// maxDigits bounds the precision FormatFixed accepts.
const maxDigits = 100

// FormatFixed formats v with exactly digits decimals. Rounding works on the
// exact binary value of v and breaks ties away from zero, so 2.5 formats as
// "3" and 1.005 (stored just below) as "1.00". Negative values that round to
// zero keep their sign ("-0"). NaN and infinities format as "NaN",
// "Infinity" and "-Infinity".
func FormatFixed(v float64, digits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	digits = min(max(digits, 0), maxDigits)

	neg := v < 0
	r := new(big.Rat).SetFloat64(math.Abs(v))
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))

	n := new(big.Int).Quo(r.Num(), r.Denom())
	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

// Render substitutes the formatted value for the first Placeholder in tmpl.
func Render(tmpl string, v float64, digits int) string {
	return strings.Replace(tmpl, Placeholder, FormatFixed(v, digits), 1)
}

package calc

import (
	"math/big"
	"strings"
)

// Round returns x rounded half to even to the given number of fractional
// decimal digits, at the precision of x.
func Round(x *big.Float, digits int) *big.Float {
	r, _, err := new(big.Float).SetPrec(x.Prec()).Parse(x.Text('f', digits), 10)
	if err != nil {
		// Text produces plain decimals for finite values.
		panic("calc: cannot round " + x.String() + ": " + err.Error())
	}
	return r
}

// Format renders x as a decimal with at most the given number of fractional
// digits. Trailing zeros and a bare trailing decimal point are removed, and
// negative zero is rendered as 0.
func Format(x *big.Float, digits int) string {
	s := x.Text('f', digits)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

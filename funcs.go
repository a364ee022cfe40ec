package calc

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// MaxFactorial is the largest operand for which the factorial is within the
// representable range.
const MaxFactorial = 170

// maxFloat is the largest representable magnitude. Results beyond it are
// overflows.
var maxFloat = new(big.Float).SetFloat64(math.MaxFloat64)

// inRange reports whether x is finite and within the representable range.
func inRange(x *big.Float) bool {
	if x.IsInf() {
		return false
	}
	return new(big.Float).Abs(x).Cmp(maxFloat) <= 0
}

// factorial sets out to in!. in must be a non-negative integer.
func factorial(out, in *big.Float) error {
	if in.Signbit() || !in.IsInt() {
		return &DomainError{X: in, Func: "!"}
	}
	if in.Cmp(big.NewFloat(MaxFactorial)) > 0 {
		return &RangeError{Func: "!"}
	}
	n, _ := in.Int64()
	var f big.Int
	f.MulRange(1, n)
	out.SetInt(&f)
	return nil
}

// sqrt sets out to the square root of in. in must be non-negative.
func sqrt(out, in *big.Float) error {
	if in.Sign() < 0 {
		return &DomainError{X: in, Func: "√"}
	}
	if in.Sign() == 0 {
		out.SetInt64(0)
		return nil
	}
	out.Sqrt(in)
	return nil
}

// pow sets out to x^y. out may alias x or y.
func pow(out, x, y *big.Float) (err error) {
	switch {
	case y.Sign() == 0:
		out.SetInt64(1)
		return nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return ErrDivideByZero
		}
		out.SetInt64(0)
		return nil
	case y.IsInt():
		return intpow(out, x, y)
	case x.Signbit():
		return &DomainError{X: x, Func: "^"}
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = r.(error) // panic if not error
		if errors.As(err, &big.ErrNaN{}) {
			err = &DomainError{X: x, Func: "^"}
			return
		}
		panic(err)
	}()
	// Estimate log2 of the result first. bigfloat.Pow cannot be trusted
	// with results far outside the float64 range.
	switch l := powlog2(x, y); {
	case l > 1100:
		return &RangeError{Func: "^"}
	case l < -1100:
		out.SetInt64(0)
		return nil
	}
	prec := out.Prec()
	if prec == 0 {
		prec = x.Prec()
	}
	r := bigfloat.Pow(new(big.Float).SetPrec(prec), x, y)
	out.Set(r)
	if !inRange(out) {
		return &RangeError{Func: "^"}
	}
	return nil
}

// intpow sets out to x^y for integer y by repeated squaring. x must be
// nonzero.
func intpow(out, x, y *big.Float) error {
	// Estimate the binary exponent of the result before computing it, so
	// that huge exponents fail fast instead of squaring for a long time.
	// |x| is in [2^(e-1), 2^e).
	e := int64(x.MantExp(nil))
	n, acc := y.Int64()
	if acc != big.Exact {
		// |y| is beyond int64. Anything other than |x| = 1 is out of range
		// or underflows to zero.
		return hugepow(out, x, y)
	}
	neg := n < 0
	if neg {
		n = -n
	}
	if lo, ok := mulexp(e-1, n); !neg && e > 1 && (!ok || lo > 1024) {
		return &RangeError{Func: "^"}
	}
	if hi, ok := mulexp(e, n); neg && e < 0 && (!ok || hi < -1100) {
		// 1/x^n is out of range only when |x| < 1.
		return &RangeError{Func: "^"}
	}
	prec := out.Prec()
	if prec == 0 {
		prec = x.Prec()
	}
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	b := new(big.Float).SetPrec(prec).Set(x)
	for n > 0 {
		if n&1 != 0 {
			r.Mul(r, b)
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
		}
	}
	if neg {
		r.Quo(new(big.Float).SetPrec(prec).SetInt64(1), r)
	}
	out.Set(r)
	if !inRange(out) {
		return &RangeError{Func: "^"}
	}
	return nil
}

// powlog2 estimates log2 |x^y| for nonzero x. The result may be infinite.
func powlog2(x, y *big.Float) float64 {
	var m big.Float
	e := x.MantExp(&m)
	mf, _ := m.Abs(&m).Float64()
	yf, _ := y.Float64()
	return yf * (float64(e) + math.Log2(mf))
}

// hugepow handles integer exponents beyond int64.
func hugepow(out, x, y *big.Float) error {
	var one big.Float
	one.SetInt64(1)
	c := new(big.Float).Abs(x).Cmp(&one)
	switch {
	case c == 0:
		// ±1 to an integer power. Even exponents give 1.
		var half big.Float
		half.Quo(y, big.NewFloat(2))
		if x.Signbit() && !half.IsInt() {
			out.SetInt64(-1)
		} else {
			out.SetInt64(1)
		}
		return nil
	case (c > 0) == (y.Sign() > 0):
		return &RangeError{Func: "^"}
	default:
		out.SetInt64(0)
		return nil
	}
}

// mulexp multiplies two exponents, reporting false on int64 overflow.
func mulexp(e, n int64) (int64, bool) {
	if e == 0 || n == 0 {
		return 0, true
	}
	r := e * n
	if r/n != e {
		return 0, false
	}
	return r, true
}

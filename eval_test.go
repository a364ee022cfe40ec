package calc_test

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    string
	}{
		{"num", "1", "1"},
		{"precedence", "2+3*4", "14"},
		{"parens", "(2+3)*4", "20"},
		{"implicit-mul", "3(4+5)", "27"},
		{"implicit-mul-nested", "2(3(4))", "24"},
		{"factorial", "5!", "120"},
		{"factorial-zero", "0!", "1"},
		{"factorial-expr", "3!+4!", "30"},
		{"root-trailing", "9√", "3"},
		{"root-prefix", "√9", "3"},
		{"root-irrational", "√2", "1.41421356"},
		{"root-factorial", "√4!", "4.89897949"},
		{"pow", "2^3", "8"},
		{"pow-chain", "2^3^2", "512"},
		{"pow-neg-exp", "2^-1", "0.5"},
		{"pow-frac", "4^0.5", "2"},
		{"pow-frac-irrational", "10^2.5", "316.22776602"},
		{"pow-frac-tiny", "0.5^5000.5", "0"},
		{"pow-frac-neg-tiny", "2^-5000.5", "0"},
		{"pow-neg-base", "(-2)^3", "-8"},
		{"pow-neg-base-even", "(-2)^2", "4"},
		{"pow-zero", "0^0", "1"},
		{"pow-zero-base", "0^2", "0"},
		{"neg-pow", "-2^2", "-4"},
		{"unary-plus", "+2", "2"},
		{"unary-mul", "2*-3", "-6"},
		{"double-neg", "2--3", "5"},
		{"div", "1/3", "0.33333333"},
		{"div-round-up", "2/3", "0.66666667"},
		{"sub", "4-5-6", "-7"},
		{"divs", "8/4/2", "1"},
		{"trim", "7/2", "3.5"},
		{"trim-int", "4.00000000", "4"},
		{"decimal", "0.1+0.2", "0.3"},
		{"trailing-dot", "5.+1", "6"},
		{"negative-zero", "-0", "0"},
		{"tiny-negative", "-1/1000000000", "0"},
		{"percent", "50/100", "0.5"},
		{"superscript", "2^¹⁰", "1024"},
		{"large", "170!/169!", "170"},
		{"max", "2^1023", "89884656743115795386465259539451236680898848947115328636715040578866337902750481566354238661203768010560056939935696678829394884407208311246423715319737062188883946712432742638151109800623047059726541476042502884419075341171231440736956555270413618581675255342293149119973622969239858152417678164812112068608"},
	}
	ctx := calc.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := ctx.Evaluate(c.src)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("wrong result for %q: want %s, got %s", c.src, c.r, r)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind calc.Kind
	}{
		{"empty", "", calc.SyntaxError},
		{"unbalanced-open", "(2+3", calc.SyntaxError},
		{"unbalanced-close", "2+3)", calc.SyntaxError},
		{"missing-operand", "2+", calc.SyntaxError},
		{"missing-lhs", "*3", calc.SyntaxError},
		{"juxtaposed", "(2)(3)", calc.SyntaxError},
		{"div-zero", "5/0", calc.ZeroDivisionError},
		{"div-zero-zero", "0/0", calc.ZeroDivisionError},
		{"div-zero-expr", "1/(2-2)", calc.ZeroDivisionError},
		{"pow-zero-neg", "0^-1", calc.ZeroDivisionError},
		{"factorial-neg", "-3!", calc.ValueError},
		{"factorial-frac", "0.5!", calc.ValueError},
		{"factorial-paren", "(2+1)!", calc.ValueError},
		{"root-neg", "√-4", calc.ValueError},
		{"pow-neg-frac", "(-8)^0.5", calc.ValueError},
		{"factorial-big", "171!", calc.OverflowError},
		{"pow-big", "10^309", calc.OverflowError},
		{"pow-huge", "10^10^10", calc.OverflowError},
		{"pow-tiny-neg", "0.1^-400", calc.OverflowError},
		{"mul-big", "100!*100!*100!*100!", calc.OverflowError},
		{"literal-big", "1" + fmt.Sprintf("%0400d", 0), calc.OverflowError},
		{"pow-frac-big", "10^308.5", calc.OverflowError},
		{"pow-frac-bigger", "10^400.5", calc.OverflowError},
		{"pow-frac-tiny-neg", "0.5^-5000.5", calc.OverflowError},
	}
	ctx := calc.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := ctx.Evaluate(c.src)
			if err == nil {
				t.Fatalf("%q gave %s with no error", c.src, r)
			}
			if r != "" {
				t.Errorf("%q gave result %q with error %v", c.src, r, err)
			}
			var e *calc.Error
			if !errors.As(err, &e) {
				t.Fatalf("%#v is not *calc.Error", err)
			}
			if e.Kind != c.kind {
				t.Errorf("%q gave wrong kind: want %v, got %v (%v)", c.src, c.kind, e.Kind, err)
			}
			if calc.KindOf(err) != e.Kind {
				t.Errorf("KindOf disagrees with %v", e)
			}
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	srcs := []string{"2+3*4", "1/3", "2/3", "7/2", "√2", "12!", "2^0.5", "1/7*100"}
	ctx := calc.NewContext()
	for _, src := range srcs {
		a, err := ctx.Evaluate(src)
		if err != nil {
			t.Fatalf("%q failed: %v", src, err)
		}
		b, err := ctx.Evaluate(a)
		if err != nil {
			t.Fatalf("%q -> %q failed: %v", src, a, err)
		}
		if a != b {
			t.Errorf("%q -> %q re-evaluated to %q", src, a, b)
		}
	}
}

func TestEvaluateNegativeResultIdempotent(t *testing.T) {
	a, err := calc.Evaluate("1-3/4")
	if err != nil {
		t.Fatal(err)
	}
	if a != "0.25" {
		t.Fatalf("wrong result %q", a)
	}
	a, err = calc.Evaluate("3/4-1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := calc.Evaluate(a)
	if err != nil || a != b {
		t.Errorf("%q re-evaluated to %q, %v", a, b, err)
	}
}

func TestErrorLabels(t *testing.T) {
	cases := map[calc.Kind]string{
		calc.SyntaxError:       "Syntax Error",
		calc.ZeroDivisionError: "Zero Division Error",
		calc.OverflowError:     "Overflow Error",
		calc.ValueError:        "Value Error",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("wrong label for %d: want %q, got %q", k, want, got)
		}
	}
	if calc.KindOf(nil) != calc.KindNone {
		t.Error("nil error has a kind")
	}
	if calc.KindOf(errors.New("other")) != calc.KindNone {
		t.Error("unrelated error has a kind")
	}
}

func TestEvalResultIsUnrounded(t *testing.T) {
	ctx := calc.NewContext(calc.Prec(64))
	e, err := ctx.Parse("1/3")
	if err != nil {
		t.Fatal(err)
	}
	r, err := ctx.Eval(e)
	if err != nil {
		t.Fatal(err)
	}
	if r.Prec() != 64 {
		t.Errorf("wrong precision %d", r.Prec())
	}
	want := new(big.Float).SetPrec(64).Quo(big.NewFloat(1), big.NewFloat(3))
	if r.Cmp(want) != 0 {
		t.Errorf("want %g, got %g", want, r)
	}
	// The context is reusable after an error.
	if _, err := ctx.Evaluate("1/0"); err == nil {
		t.Fatal("no error dividing by zero")
	}
	if s, err := ctx.Evaluate("1+1"); err != nil || s != "2" {
		t.Errorf("context not reusable: %q, %v", s, err)
	}
}

func TestDigits(t *testing.T) {
	ctx := calc.NewContext(calc.Digits(3))
	r, err := ctx.Evaluate("2/3")
	if err != nil {
		t.Fatal(err)
	}
	if r != "0.667" {
		t.Errorf("want 0.667, got %s", r)
	}
	if ctx.Digits() != 3 || ctx.Prec() != calc.DefaultPrec {
		t.Errorf("wrong settings %d digits, %d bits", ctx.Digits(), ctx.Prec())
	}
}

func BenchmarkEvaluate(b *testing.B) {
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		ctx := calc.NewContext()
		for i := 0; i < b.N; i++ {
			ctx.Evaluate("2+3*4")
		}
	})
	b.Run("marks", func(b *testing.B) {
		b.ReportAllocs()
		ctx := calc.NewContext()
		for i := 0; i < b.N; i++ {
			ctx.Evaluate("5!+√9*2(3)-9√")
		}
	})
}

func Example() {
	ctx := calc.NewContext()
	for _, src := range []string{"2+3*4", "3(4+5)", "5!", "9√", "2^3^2", "7/2", "5/0", "-3!"} {
		r, err := ctx.Evaluate(src)
		if err != nil {
			fmt.Printf("%-7s = %v\n", src, calc.KindOf(err))
			continue
		}
		fmt.Printf("%-7s = %s\n", src, r)
	}

	// Output:
	// 2+3*4   = 14
	// 3(4+5)  = 27
	// 5!      = 120
	// 9√      = 3
	// 2^3^2   = 512
	// 7/2     = 3.5
	// 5/0     = Zero Division Error
	// -3!     = Value Error
}

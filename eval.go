package calc

import (
	"math/big"
	"strconv"
)

// DefaultPrec is the default precision of calculations in bits. It is enough
// to hold every integer in the representable range exactly.
const DefaultPrec = 1024

// DefaultDigits is the default number of fractional digits in results.
const DefaultDigits = 8

// Context is a context for evaluating expressions. It is not safe to use a
// Context concurrently.
type Context struct {
	stack  []*big.Float
	nums   map[string]*big.Float
	prec   uint
	digits int
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	precopt   uint
	digitsopt int
)

func (precopt) ctxOption()   {}
func (digitsopt) ctxOption() {}

// Prec sets the precision of calculations in bits.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// Digits sets the number of fractional digits to which results are rounded.
func Digits(n int) ContextOption {
	return digitsopt(n)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is DefaultPrec. If no digits are given, the default is
// DefaultDigits.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		nums:   make(map[string]*big.Float),
		prec:   DefaultPrec,
		digits: DefaultDigits,
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil:
			// do nothing
		case precopt:
			if opt > 0 {
				ctx.prec = uint(opt)
			}
		case digitsopt:
			if opt >= 0 {
				ctx.digits = int(opt)
			}
		default:
			panic("calc: unknown option type")
		}
	}
	return &ctx
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Digits returns the number of fractional digits to which results are
// rounded.
func (ctx *Context) Digits() int {
	return ctx.digits
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. a division by zero or an overflow, then the result is nil and the
// error has type *Error.
func (ctx *Context) Eval(e *Expr) (*big.Float, error) {
	if len(ctx.stack) != 0 {
		panic("calc: Eval during Eval")
	}
	err := e.n.eval(ctx)
	if err != nil {
		ctx.stack = ctx.stack[:0]
		return nil, wrap(err)
	}
	if len(ctx.stack) != 1 {
		panic("calc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
	// The stack slot is reused by the next evaluation.
	r := new(big.Float).Copy(ctx.pop())
	if !inRange(r) {
		return nil, wrap(&RangeError{})
	}
	return r, nil
}

// Evaluate parses and evaluates an expression and formats the rounded result.
// Errors have type *Error.
func (ctx *Context) Evaluate(src string) (string, error) {
	e, err := ctx.Parse(src)
	if err != nil {
		return "", err
	}
	r, err := ctx.Eval(e)
	if err != nil {
		return "", err
	}
	return Format(Round(r, ctx.digits), ctx.digits), nil
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeNum:
		v := n.val
		if v == nil {
			var err error
			v, err = ctx.literal(n.name)
			if err != nil {
				return err
			}
		}
		ctx.push().Set(v)
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeAdd:
		l, r, err := n.operands(ctx)
		if err != nil {
			return err
		}
		l.Add(l, r)
		return checkRange(l, "+")
	case nodeSub:
		l, r, err := n.operands(ctx)
		if err != nil {
			return err
		}
		l.Sub(l, r)
		return checkRange(l, "-")
	case nodeMul:
		l, r, err := n.operands(ctx)
		if err != nil {
			return err
		}
		l.Mul(l, r)
		return checkRange(l, "*")
	case nodeDiv:
		l, r, err := n.operands(ctx)
		if err != nil {
			return err
		}
		// Guard against division by zero, including 0/0.
		if r.Sign() == 0 {
			return ErrDivideByZero
		}
		l.Quo(l, r)
		return checkRange(l, "/")
	case nodePow:
		l, r, err := n.operands(ctx)
		if err != nil {
			return err
		}
		return pow(l, l, r)
	case nodeNop:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
	return nil
}

// operands evaluates both sides of a binary node, leaving the left on the top
// of the stack.
func (n *node) operands(ctx *Context) (l, r *big.Float, err error) {
	if err := n.left.eval(ctx); err != nil {
		return nil, nil, err
	}
	if err := n.right.eval(ctx); err != nil {
		return nil, nil, err
	}
	r = ctx.pop()
	l = ctx.top()
	return l, r, nil
}

func checkRange(x *big.Float, op string) error {
	if !inRange(x) {
		return &RangeError{Func: op}
	}
	return nil
}

var defaultContext = NewContext()

// Evaluate is a shortcut to evaluate an expression with a default context.
// It is not safe to call concurrently.
func Evaluate(src string) (string, error) {
	return defaultContext.Evaluate(src)
}

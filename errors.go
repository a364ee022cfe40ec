package calc

import (
	"errors"
	"math/big"
	"strconv"
)

// Kind classifies a failed evaluation.
type Kind int8

const (
	// KindNone is the kind of a nil error or an error which did not come
	// from evaluation.
	KindNone Kind = iota
	// SyntaxError is a malformed or incomplete expression.
	SyntaxError
	// ZeroDivisionError is a division by zero.
	ZeroDivisionError
	// OverflowError is a magnitude beyond the representable range.
	OverflowError
	// ValueError is an operand outside the domain of an operation.
	ValueError
)

// String returns the label shown in place of a result.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return ""
	case SyntaxError:
		return "Syntax Error"
	case ZeroDivisionError:
		return "Zero Division Error"
	case OverflowError:
		return "Overflow Error"
	case ValueError:
		return "Value Error"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is the error returned from a failed evaluation. It has exactly one
// Kind and unwraps to the error which caused it.
type Error struct {
	Kind Kind
	Err  error
}

func (err *Error) Error() string {
	return err.Kind.String() + ": " + err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// KindOf returns the kind of an evaluation error.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return classify(err)
}

// wrap attaches a kind to an error from parsing or evaluation.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	var (
		in InputError
		rg *RangeError
		dm *DomainError
		nn big.ErrNaN
	)
	switch {
	case errors.Is(err, ErrDivideByZero):
		return ZeroDivisionError
	case errors.As(err, &in):
		return SyntaxError
	case errors.As(err, &rg):
		return OverflowError
	case errors.As(err, &dm), errors.As(err, &nn):
		return ValueError
	default:
		return KindNone
	}
}

// ErrDivideByZero is the error for a division by zero or a zero raised to a
// negative power.
var ErrDivideByZero = errors.New("division by zero")

// DomainError is an error returned when an operation is applied to an operand
// outside its domain.
type DomainError struct {
	// X is the out-of-domain operand. It is nil if the operand is not a
	// number, e.g. a parenthesis.
	X *big.Float
	// Text is the operand's token text when X is nil.
	Text string
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	var r string
	switch {
	case err.X != nil:
		r = err.X.Text('g', 10) + " outside domain"
	case err.Text != "":
		r = strconv.Quote(err.Text) + " is not a number"
	default:
		r = "missing operand"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

// RangeError is an error returned when a result's magnitude exceeds the
// largest representable value.
type RangeError struct {
	// Func is a name identifying the operation which overflowed.
	Func string
}

func (err *RangeError) Error() string {
	if err.Func == "" {
		return "result out of range"
	}
	return "result of " + err.Func + " out of range"
}

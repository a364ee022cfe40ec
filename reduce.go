package calc

import (
	"math/big"
	"strings"
)

// ReduceFactorials folds each factorial mark into the number before it,
// left to right, so "3!!" is (3!)!. The input is not modified.
//
// A mark whose operand is missing, is not a number, is not an integer, or is
// negated by a unary minus gives a ValueError. An operand above MaxFactorial
// gives an OverflowError.
func (ctx *Context) ReduceFactorials(toks []Token) ([]Token, error) {
	out := make([]Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind != TokenFactorial {
			out = append(out, tok)
			continue
		}
		if len(out) == 0 {
			return nil, wrap(&DomainError{Func: "!"})
		}
		k := len(out) - 1
		x, err := ctx.operand(out[k], "!")
		if err != nil {
			return nil, wrap(err)
		}
		if negated(out[:k]) {
			return nil, wrap(&DomainError{X: new(big.Float).Neg(x), Func: "!"})
		}
		r := new(big.Float).SetPrec(ctx.prec)
		if err := factorial(r, x); err != nil {
			return nil, wrap(err)
		}
		out[k] = ctx.folded(out[k].Pos, r)
	}
	return out, nil
}

// ReduceRoots folds each root mark into the number after it. Marks at the end
// of the sequence apply to the number before them, so "9√" is √9. Nested
// marks fold innermost first: "√√16" is 2. The input is not modified.
//
// A mark whose operand is missing, is not a number, or is negative gives a
// ValueError.
func (ctx *Context) ReduceRoots(toks []Token) ([]Token, error) {
	toks = trailingRoots(toks)
	// Build the result back to front, so that the operand of a mark is
	// always the most recently emitted token.
	rev := make([]Token, 0, len(toks))
	for i := len(toks) - 1; i >= 0; i-- {
		tok := toks[i]
		if tok.Kind != TokenRoot {
			rev = append(rev, tok)
			continue
		}
		if len(rev) == 0 {
			return nil, wrap(&DomainError{Func: "√"})
		}
		arg := rev[len(rev)-1]
		x, err := ctx.operand(arg, "√")
		if err != nil {
			return nil, wrap(err)
		}
		r := new(big.Float).SetPrec(ctx.prec)
		if err := sqrt(r, x); err != nil {
			return nil, wrap(err)
		}
		rev[len(rev)-1] = ctx.folded(tok.Pos, r)
	}
	out := make([]Token, len(rev))
	for i, tok := range rev {
		out[len(rev)-1-i] = tok
	}
	return out, nil
}

// trailingRoots moves the token before a run of root marks at the end of a
// sequence to after the run, turning "x √ √" into "√ √ x". The result is a
// copy if anything moves.
func trailingRoots(toks []Token) []Token {
	k := 0
	for k < len(toks) && toks[len(toks)-1-k].Kind == TokenRoot {
		k++
	}
	if k == 0 || k == len(toks) {
		return toks
	}
	n := len(toks) - k - 1
	r := make([]Token, 0, len(toks))
	r = append(r, toks[:n]...)
	r = append(r, toks[n+1:]...)
	return append(r, toks[n])
}

// negated reports whether the last token of a prefix is a unary minus.
func negated(prefix []Token) bool {
	k := len(prefix) - 1
	if k < 0 || prefix[k].Kind != TokenOp || prefix[k].Text != "-" {
		return false
	}
	if k == 0 {
		return true
	}
	switch prefix[k-1].Kind {
	case TokenOp, TokenOpen:
		return true
	}
	return false
}

// operand gets the value of a number token used as the operand of fn.
func (ctx *Context) operand(tok Token, fn string) (*big.Float, error) {
	if tok.Kind != TokenNum {
		return nil, &DomainError{Text: tok.Text, Func: fn}
	}
	if tok.val != nil {
		return tok.val, nil
	}
	return ctx.literal(tok.Text)
}

// literal parses a number token at the context's precision.
func (ctx *Context) literal(s string) (*big.Float, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	// The lexer allows a trailing dot, as in "5.".
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(strings.TrimSuffix(s, "."), 10)
	if err != nil {
		// Only an exponent overflow can fail here, since the lexer only
		// produces digits and one dot.
		return nil, &RangeError{Func: "literal"}
	}
	if !inRange(r) {
		return nil, &RangeError{Func: "literal"}
	}
	ctx.nums[s] = r
	return r, nil
}

// folded creates a number token holding a reduced value.
func (ctx *Context) folded(pos int, x *big.Float) Token {
	return Token{Text: Format(x, ctx.digits), Kind: TokenNum, Pos: pos, val: x}
}

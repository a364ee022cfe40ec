package calc

import (
	"strings"
)

// Expr = num | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
// Pow = Expr '^' Expr
//
// Factorial and root marks never reach the parser; the reducers fold them
// into numbers first.

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse tokenizes an expression, reduces its factorial and root marks, and
// parses the result. Errors have type *Error.
func (ctx *Context) Parse(src string) (*Expr, error) {
	toks := Tokenize(src)
	toks, err := ctx.ReduceFactorials(toks)
	if err != nil {
		return nil, err
	}
	toks, err = ctx.ReduceRoots(toks)
	if err != nil {
		return nil, err
	}
	e, err := ParseTokens(toks)
	if err != nil {
		return nil, wrap(err)
	}
	return e, nil
}

// ParseTokens parses a reduced token sequence. The sequence must not contain
// factorial or root marks.
func ParseTokens(toks []Token) (*Expr, error) {
	scan := &parser{toks: toks, eof: eofToken(toks)}
	n, err := parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.Kind != tokenEOF {
		// The only token which ends a top-level term early is a close
		// bracket with nothing to close.
		return nil, &BracketError{Col: tok.Pos, Right: tok.Text}
	}
	return &Expr{n: n}, nil
}

// parser scans a token sequence.
type parser struct {
	toks []Token
	pos  int
	eof  Token
	p    Token
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (p *parser) push(tok Token) {
	if p.p.Kind != tokenNone {
		panic("calc: double push")
	}
	p.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (p *parser) must() Token {
	tok := p.p
	if tok.Kind == tokenNone {
		panic("calc: no pushed token")
	}
	p.p = Token{}
	return tok
}

// next scans the next token. After the last token, the result is always the
// EOF token.
func (p *parser) next() Token {
	if p.p.Kind != tokenNone {
		tok := p.p
		p.p = Token{}
		return tok
	}
	if p.pos >= len(p.toks) {
		return p.eof
	}
	tok := p.toks[p.pos]
	p.pos++
	return tok
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, which is a close bracket, an operator less binding
// than until, or EOF.
func parseterm(scan *parser, until operator) (*node, error) {
	n, err := parselhs(scan, until)
	if err != nil {
		return nil, err
	}
	for {
		tok := scan.next()
		switch tok.Kind {
		case TokenOp:
			// Binary operator.
			prec := binop(tok.Text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, prec)
			if err != nil {
				return nil, err
			}
			n = &node{kind: prec.op, left: n, right: rhs}
		case TokenClose, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		case TokenNum, TokenOpen:
			// Terms only combine through operators. The lexer already
			// turned 2(x) into 2*(x).
			return nil, &OperandError{Col: tok.Pos, Text: tok.Text}
		default:
			// Unreduced marks.
			return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: false}
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *parser, until operator) (*node, error) {
	tok := scan.next()
	var n *node
	switch tok.Kind {
	case TokenNum:
		n = &node{kind: nodeNum, name: tok.Text, val: tok.val}
	case TokenOp:
		// unary operator
		prec := unop(tok.Text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, prec)
		if err != nil {
			return nil, err
		}
		n = &node{kind: prec.op, left: rhs}
	case TokenOpen:
		rhs, err := parseterm(scan, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.Kind != TokenClose {
			return nil, &BracketError{Col: end.Pos, Left: tok.Text}
		}
		n = rhs
	case TokenClose:
		return nil, &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.Pos, End: ""}
	default:
		// Unreduced marks.
		return nil, &OperatorError{Col: tok.Pos, Operator: tok.Text, Unary: true}
	}
	return n, nil
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false, true)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*":
		return operator{5, false, nodeMul}
	case "/":
		return operator{5, false, nodeDiv}
	case "^":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodeNop}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}

package calc

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Token is a lexical unit of an expression.
type Token struct {
	// Text is the source text of the token. For numbers produced by a
	// reducer, it is the formatted value.
	Text string
	// Kind is the token type.
	Kind TokenKind
	// Pos is the 1-based rune position of the token in the source.
	Pos int

	// val is the exact value of a number token produced by a reducer.
	val *big.Float
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// tokenEOF marks the end of a token sequence. Tokenize never produces it.
	tokenEOF
	// TokenNum is a non-negative decimal literal.
	TokenNum
	// TokenOp is one of the binary or unary operators + - * / ^.
	TokenOp
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
	// TokenFactorial is the postfix factorial mark !.
	TokenFactorial
	// TokenRoot is the square root mark √.
	TokenRoot
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case TokenNum:
		return "Num"
	case TokenOp:
		return "Op"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	case TokenFactorial:
		return "Factorial"
	case TokenRoot:
		return "Root"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are lexed as operators.
const Operators = "+-*/^"

// Marks for the factorial and root reducers.
const (
	FactorialMark = '!'
	RootMark      = '√'
)

// superscripts maps the display form of exponent digits back to digits.
var superscripts = strings.NewReplacer(
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
)

type lexer struct {
	src  *strings.Reader
	buf  strings.Builder
	rune int
}

// Tokenize splits an expression into tokens. Runes which cannot start or
// continue a token are dropped. A digit immediately followed by an open
// parenthesis implies a multiplication, so "3(4)" lexes as "3 * ( 4 )".
// Superscript digits are read as ordinary digits.
func Tokenize(src string) []Token {
	l := lexer{src: strings.NewReader(superscripts.Replace(src))}
	var toks []Token
	for {
		tok, ok := l.next()
		if !ok {
			return toks
		}
		toks = append(toks, tok)
		if tok.Kind != TokenNum || !l.peek('(') {
			continue
		}
		// Only a digit right before the bracket implies multiplication.
		if strings.HasSuffix(tok.Text, ".") {
			continue
		}
		toks = append(toks, Token{Text: "*", Kind: TokenOp, Pos: l.rune + 1})
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (rune, bool) {
	r, _, err := l.src.ReadRune()
	if err != nil {
		// strings.Reader only fails at EOF.
		return 0, false
	}
	l.rune++
	return r, true
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// peek reports whether the next rune is r without consuming it.
func (l *lexer) peek(r rune) bool {
	c, ok := l.readRune()
	if !ok {
		return false
	}
	l.unreadRune()
	return c == r
}

// next scans the next token from the input. The second result is false once
// the input is exhausted.
func (l *lexer) next() (Token, bool) {
	defer l.buf.Reset()
	for {
		r, ok := l.readRune()
		if !ok {
			return Token{}, false
		}
		tok := Token{Pos: l.rune}
		switch {
		case '0' <= r && r <= '9':
			l.unreadRune()
			l.scanNum()
			tok.Text = l.buf.String()
			tok.Kind = TokenNum
			return tok, true
		case strings.ContainsRune(Operators, r):
			tok.Text = string(r)
			tok.Kind = TokenOp
			return tok, true
		case r == '(':
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, true
		case r == ')':
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, true
		case r == FactorialMark:
			tok.Text = string(FactorialMark)
			tok.Kind = TokenFactorial
			return tok, true
		case r == RootMark:
			tok.Text = string(RootMark)
			tok.Kind = TokenRoot
			return tok, true
		}
		// Anything else is dropped.
	}
}

// scanNum scans a run of digits with at most one dot. The first rune must be
// a digit.
func (l *lexer) scanNum() {
	var dot bool
	for {
		r, ok := l.readRune()
		if !ok {
			return
		}
		switch {
		case '0' <= r && r <= '9':
			l.buf.WriteRune(r)
		case r == '.' && !dot:
			dot = true
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return
		}
	}
}

// eofToken returns the end token for a sequence.
func eofToken(toks []Token) Token {
	pos := 1
	if len(toks) > 0 {
		last := toks[len(toks)-1]
		pos = last.Pos + utf8.RuneCountInString(last.Text)
	}
	return Token{Kind: tokenEOF, Pos: pos}
}

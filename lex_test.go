package calc

import (
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		src    string
		tokens []Token
	}{
		// spaces and other dropped runes
		{"", nil},
		{" \t \r\n ", nil},
		{"abc$", nil},
		// numbers
		{"0", []Token{{Text: "0", Kind: TokenNum, Pos: 1}}},
		{"9876543210", []Token{{Text: "9876543210", Kind: TokenNum, Pos: 1}}},
		{"1 0", []Token{{Text: "1", Kind: TokenNum, Pos: 1}, {Text: "0", Kind: TokenNum, Pos: 3}}},
		{"1.0", []Token{{Text: "1.0", Kind: TokenNum, Pos: 1}}},
		{"5.", []Token{{Text: "5.", Kind: TokenNum, Pos: 1}}},
		{".5", []Token{{Text: "5", Kind: TokenNum, Pos: 2}}},
		{"1.2.3", []Token{{Text: "1.2", Kind: TokenNum, Pos: 1}, {Text: "3", Kind: TokenNum, Pos: 5}}},
		{"-1", []Token{{Text: "-", Kind: TokenOp, Pos: 1}, {Text: "1", Kind: TokenNum, Pos: 2}}},
		{"²³", []Token{{Text: "23", Kind: TokenNum, Pos: 1}}},
		{"2^¹⁰", []Token{{Text: "2", Kind: TokenNum, Pos: 1}, {Text: "^", Kind: TokenOp, Pos: 2}, {Text: "10", Kind: TokenNum, Pos: 3}}},
		// operators
		{"1+0", []Token{{Text: "1", Kind: TokenNum, Pos: 1}, {Text: "+", Kind: TokenOp, Pos: 2}, {Text: "0", Kind: TokenNum, Pos: 3}}},
		{"1*0", []Token{{Text: "1", Kind: TokenNum, Pos: 1}, {Text: "*", Kind: TokenOp, Pos: 2}, {Text: "0", Kind: TokenNum, Pos: 3}}},
		{"+-*/^", []Token{
			{Text: "+", Kind: TokenOp, Pos: 1},
			{Text: "-", Kind: TokenOp, Pos: 2},
			{Text: "*", Kind: TokenOp, Pos: 3},
			{Text: "/", Kind: TokenOp, Pos: 4},
			{Text: "^", Kind: TokenOp, Pos: 5},
		}},
		{"2×3", []Token{{Text: "2", Kind: TokenNum, Pos: 1}, {Text: "3", Kind: TokenNum, Pos: 3}}},
		// marks
		{"5!", []Token{{Text: "5", Kind: TokenNum, Pos: 1}, {Text: "!", Kind: TokenFactorial, Pos: 2}}},
		{"√9", []Token{{Text: "√", Kind: TokenRoot, Pos: 1}, {Text: "9", Kind: TokenNum, Pos: 2}}},
		{"9√", []Token{{Text: "9", Kind: TokenNum, Pos: 1}, {Text: "√", Kind: TokenRoot, Pos: 2}}},
		// brackets
		{"(1)", []Token{{Text: "(", Kind: TokenOpen, Pos: 1}, {Text: "1", Kind: TokenNum, Pos: 2}, {Text: ")", Kind: TokenClose, Pos: 3}}},
		{"[1]", []Token{{Text: "1", Kind: TokenNum, Pos: 2}}},
		// implicit multiplication
		{"3(4)", []Token{
			{Text: "3", Kind: TokenNum, Pos: 1},
			{Text: "*", Kind: TokenOp, Pos: 2},
			{Text: "(", Kind: TokenOpen, Pos: 2},
			{Text: "4", Kind: TokenNum, Pos: 3},
			{Text: ")", Kind: TokenClose, Pos: 4},
		}},
		{"3 (", []Token{{Text: "3", Kind: TokenNum, Pos: 1}, {Text: "(", Kind: TokenOpen, Pos: 3}}},
		{"3.(", []Token{{Text: "3.", Kind: TokenNum, Pos: 1}, {Text: "(", Kind: TokenOpen, Pos: 3}}},
		{")(", []Token{{Text: ")", Kind: TokenClose, Pos: 1}, {Text: "(", Kind: TokenOpen, Pos: 2}}},
	}

	for _, c := range cases {
		got := Tokenize(c.src)
		if len(got) != len(c.tokens) {
			t.Errorf("scanning %q: want %v, got %v", c.src, c.tokens, got)
			continue
		}
		for i, want := range c.tokens {
			if got[i] != want {
				t.Errorf("scanning %q: token %d: want %v, got %v", c.src, i, want, got[i])
			}
		}
	}
}

func TestTokenizeKeepsOrder(t *testing.T) {
	src := "12+(3.5*√4)!-1^2/6"
	toks := Tokenize(src)
	for i := 1; i < len(toks); i++ {
		if toks[i].Pos <= toks[i-1].Pos {
			t.Errorf("token %v at or before %v", toks[i], toks[i-1])
		}
	}
}

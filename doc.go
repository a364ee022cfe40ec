// Package calc implements the evaluation engine of a keypad calculator.
//
// Expressions are the strings a calculator display builds up: numbers, the
// binary operators + - * / and ^, unary signs, parentheses, the postfix
// factorial mark "!", and the square root mark "√". Factorials and roots are
// evaluated directly on the token stream before parsing, so "2+3!*9√" is
// the same as "2+6*3". A digit immediately followed by "(" multiplies, so
// "3(4+5)" is 27. "-2^2^n" is the same as "-(2^(2^n))".
//
// Calculations are carried out in arbitrary precision and checked against
// the range of a float64. Results are rounded to a fixed number of fractional
// digits and formatted without trailing zeros. Every failure has exactly one
// Kind, whose String is the label a calculator shows in place of a result.
package calc

// Package session implements the input state machine of a keypad
// calculator. Key presses build an operand and an accumulated expression,
// which an Evaluator turns into a result or an error label.
package session

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/zephyrtronium/calc"
)

// DisplayWidth is the largest number of runes shown for the current operand.
const DisplayWidth = 24

// State is the state of a session.
type State int8

const (
	// Entering is building the current operand.
	Entering State = iota
	// AwaitingOperator follows an operator or special key.
	AwaitingOperator
	// Evaluated follows a successful evaluation. The current operand holds
	// the result.
	Evaluated
	// Error follows a failed evaluation. The current operand holds the
	// error label until the next key clears it.
	Error
)

func (s State) String() string {
	switch s {
	case Entering:
		return "Entering"
	case AwaitingOperator:
		return "AwaitingOperator"
	case Evaluated:
		return "Evaluated"
	case Error:
		return "Error"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Evaluator evaluates a full expression to its formatted result.
// *calc.Context is an Evaluator.
type Evaluator interface {
	Evaluate(src string) (string, error)
}

// Session holds the buffers of one calculator. It is not safe to use a
// Session concurrently.
type Session struct {
	id     uuid.UUID
	ev     Evaluator
	logger *slog.Logger

	state State
	// current is the operand being entered, the last result, or an error
	// label.
	current string
	// full is the accumulated expression.
	full string
	// last is the full expression of the last successful evaluation.
	last string
	// answer is the result of the last successful evaluation.
	answer string
	// exponent is set while digits are entered as an exponent.
	exponent bool
}

// New creates a session using ev to evaluate expressions. If ev is nil, a
// calc.Context with default settings is used. If logger is nil,
// slog.Default() is used.
func New(ev Evaluator, logger *slog.Logger) *Session {
	if ev == nil {
		ev = calc.NewContext()
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.New()
	return &Session{
		id:     id,
		ev:     ev,
		logger: logger.With("session", id.String()),
	}
}

// ID returns the session's identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the session's state.
func (s *Session) State() State { return s.state }

// Current returns the current operand buffer.
func (s *Session) Current() string { return s.current }

// Full returns the accumulated expression.
func (s *Session) Full() string { return s.full }

// LastAnswer returns the result of the last successful evaluation.
func (s *Session) LastAnswer() string { return s.answer }

// LastExpression returns the expression of the last successful evaluation.
func (s *Session) LastExpression() string { return s.last }

// Exponent reports whether digits are being entered as an exponent.
func (s *Session) Exponent() bool { return s.exponent }

// superscripts maps ASCII digits to their superscript forms.
var superscripts = strings.NewReplacer(
	"0", "⁰", "1", "¹", "2", "²", "3", "³", "4", "⁴",
	"5", "⁵", "6", "⁶", "7", "⁷", "8", "⁸", "9", "⁹",
)

// Digit enters a digit or decimal point. After an error or an evaluation,
// it starts a fresh expression.
func (s *Session) Digit(d rune) {
	if d != '.' && (d < '0' || d > '9') {
		return
	}
	switch s.state {
	case Error, Evaluated:
		s.current, s.full = "", ""
	}
	t := string(d)
	if s.exponent {
		t = superscripts.Replace(t)
	}
	s.current += t
	s.state = Entering
}

// Operator appends the current operand and op to the full expression. In
// the error state, it only clears the buffers.
func (s *Session) Operator(op string) {
	s.exponent = false
	if s.clearError() {
		return
	}
	s.append(s.current + op)
}

// Percent divides the current operand by 100.
func (s *Session) Percent() {
	s.Operator("/100")
}

// Root appends a root mark followed by the current operand.
func (s *Session) Root() {
	s.exponent = false
	if s.clearError() {
		return
	}
	s.append(string(calc.RootMark) + s.current)
}

// Power appends the current operand and the exponent operator, and enters
// exponent digits.
func (s *Session) Power() {
	if s.clearError() {
		return
	}
	s.exponent = true
	s.append(s.current + "^")
}

// Factorial appends the current operand followed by a factorial mark.
func (s *Session) Factorial() {
	s.exponent = false
	if s.clearError() {
		return
	}
	s.append(s.current + string(calc.FactorialMark))
}

// append moves text into the full expression and clears the operand.
func (s *Session) append(text string) {
	s.full += text
	s.current = ""
	s.state = AwaitingOperator
}

// clearError clears the buffers if the session is in the error state. It
// reports whether it did.
func (s *Session) clearError() bool {
	if s.state != Error {
		return false
	}
	s.current, s.full = "", ""
	s.state = Entering
	return true
}

// Answer appends the last answer to the current operand, unless the session
// was just evaluated.
func (s *Session) Answer() {
	s.exponent = false
	switch s.state {
	case Evaluated:
		return
	case Error:
		s.clearError()
	}
	s.current += s.answer
	s.state = Entering
}

// ClearEntry removes the last entered rune. Directly after an evaluation, it
// restores the evaluated expression less its last rune.
func (s *Session) ClearEntry() {
	switch {
	case s.clearError():
		return
	case s.state == Evaluated:
		s.full = dropLast(s.last)
		s.current = ""
	case s.current == "":
		s.full = dropLast(s.full)
	default:
		s.current = dropLast(s.current)
	}
	s.state = Entering
}

// ClearAll empties both buffers. The last answer is kept.
func (s *Session) ClearAll() {
	s.current, s.full = "", ""
	s.exponent = false
	s.state = Entering
}

// Evaluate appends the current operand to the full expression and evaluates
// it. On success, the result becomes the current operand and the last
// answer. On failure, the current operand becomes the error label. In the
// error state, Evaluate does nothing.
func (s *Session) Evaluate() {
	if s.state == Error {
		return
	}
	s.exponent = false
	s.full += s.current
	src := s.full
	r, err := s.ev.Evaluate(src)
	if err != nil {
		k := calc.KindOf(err)
		if k == calc.KindNone {
			k = calc.SyntaxError
		}
		s.logger.Info("evaluation failed", "expr", src, "kind", k.String(), "error", err)
		s.current = k.String()
		s.state = Error
		return
	}
	s.logger.Debug("evaluated", "expr", src, "result", r)
	s.current = r
	s.answer = r
	s.last = src
	s.full = ""
	s.state = Evaluated
}

// Display returns the current operand as shown on the display.
func (s *Session) Display() string {
	if utf8.RuneCountInString(s.current) <= DisplayWidth {
		return s.current
	}
	r := []rune(s.current)
	return string(r[:DisplayWidth])
}

// dropLast removes the last rune of s.
func dropLast(s string) string {
	_, n := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-n]
}

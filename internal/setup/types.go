// internal/setup/types.go
//
// Closed value sets for the configuration screen.
// Defines:
//   - Operation: one of the four arithmetic operations.
//   - QuestionType: which value a question hides.
//   - Range: inclusive integer interval operands are drawn from.

package setup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Operation is an arithmetic operation a player can practise.
type Operation string

const (
	Addition       Operation = "addition"
	Subtraction    Operation = "subtraction"
	Multiplication Operation = "multiplication"
	Division       Operation = "division"
)

// Operations lists every operation in display order.
var Operations = []Operation{Addition, Subtraction, Multiplication, Division}

// Valid reports whether op is one of the four known operations.
func (op Operation) Valid() bool {
	switch op {
	case Addition, Subtraction, Multiplication, Division:
		return true
	}
	return false
}

// Symbol returns the operator glyph shown in the equation.
func (op Operation) Symbol() string {
	switch op {
	case Addition:
		return "+"
	case Subtraction:
		return "−"
	case Multiplication:
		return "×"
	case Division:
		return "÷"
	}
	return "?"
}

// Title returns the capitalised name ("Addition").
func (op Operation) Title() string {
	s := string(op)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// QuestionType selects which slot of a question is hidden.
type QuestionType string

const (
	MissingResult  QuestionType = "missing-result"
	MissingOperand QuestionType = "missing-operand"
	Both           QuestionType = "both" // re-resolved for every question
)

// QuestionTypes lists every question type in display order.
var QuestionTypes = []QuestionType{MissingResult, MissingOperand, Both}

func (t QuestionType) Valid() bool {
	return t == MissingResult || t == MissingOperand || t == Both
}

// Title is the mode name on the config preview ("Random Mix").
func (t QuestionType) Title() string {
	switch t {
	case MissingResult:
		return "Missing Result"
	case MissingOperand:
		return "Missing Operand"
	case Both:
		return "Random Mix"
	}
	return ""
}

// Range is an inclusive interval [Min, Max].
type Range struct {
	Min int
	Max int
}

// ErrBadRange is returned by ParseRange for anything that is not "min-max" with min ≤ max.
var ErrBadRange = errors.New("range must look like min-max with min <= max")

// ParseRange parses the "min-max" form used on the wire ("1-10").
// A leading minus on either bound is accepted ("-5--1").
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	// skip a leading sign so the separator search finds the real dash
	sep := strings.Index(s[min(1, len(s)):], "-")
	if sep < 0 {
		return Range{}, ErrBadRange
	}
	sep += min(1, len(s))
	lo, err := strconv.Atoi(s[:sep])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	hi, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	if lo > hi {
		return Range{}, fmt.Errorf("%w: %q", ErrBadRange, s)
	}
	return Range{Min: lo, Max: hi}, nil
}

// String renders the range as "min-max".
func (r Range) String() string {
	return strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max)
}

// MarshalText lets Range travel as a JSON string.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Range) UnmarshalText(b []byte) error {
	parsed, err := ParseRange(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MaxMagnitude bounds |Min| and |Max| of a usable range. Products of two
// bounded values fit even a 32-bit int, so every generated equation is exact.
const MaxMagnitude = 10_000

// bounded reports whether both ends lie within ±MaxMagnitude.
func (r Range) bounded() bool {
	return r.Min >= -MaxMagnitude && r.Max <= MaxMagnitude
}

// hasNonZero reports whether any value in the range is non-zero,
// i.e. whether a division divisor can be drawn from it.
func (r Range) hasNonZero() bool {
	return r.Min != 0 || r.Max != 0
}

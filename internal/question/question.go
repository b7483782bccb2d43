// internal/question/question.go
//
// Question value type: an equation with exactly one hidden slot.

package question

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/robalobadob/mathflash/internal/setup"
)

// Slot names one of the three values of an equation.
type Slot string

const (
	SlotOperand1 Slot = "operand1"
	SlotOperand2 Slot = "operand2"
	SlotResult   Slot = "result"
)

// Placeholder is the glyph rendered in place of the hidden value.
const Placeholder = "?"

// Question is a fully specified equation: Operand1 <Operation> Operand2 = Result.
type Question struct {
	Operation      setup.Operation `json:"operation"`
	Operand1       int             `json:"operand1"`
	Operand2       int             `json:"operand2"`
	Result         int             `json:"result"`
	Hidden         Slot            `json:"hiddenSlot"`
	ExpectedAnswer int             `json:"-"`
}

// Value returns the true value of slot.
func (q Question) Value(slot Slot) int {
	switch slot {
	case SlotOperand1:
		return q.Operand1
	case SlotOperand2:
		return q.Operand2
	default:
		return q.Result
	}
}

// Holds reports whether the arithmetic identity is exact over the integers
// (division additionally requires a non-zero divisor and no remainder).
// It does not wrap on overflow.
func (q Question) Holds() bool {
	a, b, r := big.NewInt(int64(q.Operand1)), big.NewInt(int64(q.Operand2)), big.NewInt(int64(q.Result))
	switch q.Operation {
	case setup.Addition:
		return new(big.Int).Add(a, b).Cmp(r) == 0
	case setup.Subtraction:
		return new(big.Int).Sub(a, b).Cmp(r) == 0
	case setup.Multiplication:
		return new(big.Int).Mul(a, b).Cmp(r) == 0
	case setup.Division:
		return b.Sign() != 0 && new(big.Int).Mul(r, b).Cmp(a) == 0
	}
	return false
}

// Display returns the three rendered slots with the hidden one replaced by Placeholder.
func (q Question) Display() (op1, op2, res string) {
	show := func(s Slot) string {
		if s == q.Hidden {
			return Placeholder
		}
		return strconv.Itoa(q.Value(s))
	}
	return show(SlotOperand1), show(SlotOperand2), show(SlotResult)
}

// Equation renders "7 × ? = 56".
func (q Question) Equation() string {
	a, b, r := q.Display()
	return fmt.Sprintf("%s %s %s = %s", a, q.Operation.Symbol(), b, r)
}

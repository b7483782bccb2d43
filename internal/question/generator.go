// internal/question/generator.go
//
// Random question generation.
//
// Per operation, every draw is uniform over the inclusive config range:
//   - addition / multiplication: both operands drawn independently.
//   - subtraction: two draws, larger one becomes operand1 so the result is never negative.
//   - division: result and divisor drawn, dividend = result × divisor, so the quotient is exact.
//     A zero divisor is redrawn.
//
// Question type "both" is resolved again for every question.

package question

import (
	"math/rand"
	"sync"
	"time"

	"github.com/robalobadob/mathflash/internal/setup"
)

// Generator produces questions from a config. Safe for concurrent use.
type Generator struct {
	mu  sync.Mutex // *rand.Rand is not goroutine safe
	rnd *rand.Rand
}

// NewGenerator returns a generator over src. A nil src seeds from the wall clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Generator{rnd: rand.New(src)}
}

// Generate builds one question. cfg must satisfy setup.Config.Validate.
func (g *Generator) Generate(cfg setup.Config) Question {
	g.mu.Lock()
	defer g.mu.Unlock()

	lo, hi := cfg.Range.Min, cfg.Range.Max
	q := Question{Operation: cfg.Operations[g.rnd.Intn(len(cfg.Operations))]}

	switch q.Operation {
	case setup.Addition:
		q.Operand1 = g.between(lo, hi)
		q.Operand2 = g.between(lo, hi)
		q.Result = q.Operand1 + q.Operand2
	case setup.Subtraction:
		a, b := g.between(lo, hi), g.between(lo, hi)
		q.Operand1, q.Operand2 = max(a, b), min(a, b)
		q.Result = q.Operand1 - q.Operand2
	case setup.Multiplication:
		q.Operand1 = g.between(lo, hi)
		q.Operand2 = g.between(lo, hi)
		q.Result = q.Operand1 * q.Operand2
	case setup.Division:
		q.Result = g.between(lo, hi)
		q.Operand2 = g.between(lo, hi)
		for q.Operand2 == 0 {
			q.Operand2 = g.between(lo, hi)
		}
		q.Operand1 = q.Result * q.Operand2
	}

	qtype := cfg.Type
	if qtype == setup.Both {
		qtype = setup.MissingResult
		if g.rnd.Intn(2) == 1 {
			qtype = setup.MissingOperand
		}
	}

	if qtype == setup.MissingResult {
		q.Hidden = SlotResult
	} else if g.rnd.Intn(2) == 0 {
		q.Hidden = SlotOperand1
	} else {
		q.Hidden = SlotOperand2
	}
	q.ExpectedAnswer = q.Value(q.Hidden)
	return q
}

// between draws uniformly from [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}

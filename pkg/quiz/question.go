// Package quiz implements the arithmetic fuel challenge.
package quiz

import "fmt"

// Source is the random source used for question generation and scheduling.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Op is an arithmetic operator.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
)

// Question is one arithmetic challenge with three answer options.
type Question struct {
	A       int    `json:"a"`
	B       int    `json:"b"`
	Op      Op     `json:"op"`
	Text    string `json:"text"`
	Options [3]int `json:"options"`
	answer  int
}

// Answer returns the correct value.
func (q Question) Answer() int {
	return q.answer
}

// CorrectIndex returns the option index holding the correct value.
func (q Question) CorrectIndex() int {
	for i, o := range q.Options {
		if o == q.answer {
			return i
		}
	}
	return -1
}

// between returns a uniform int in [lo, hi].
func between(rng Source, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}

// Generate builds a question for the difficulty tier (1-3).
//
//	tier 1: addition, operands 1-15
//	tier 2: multiplication or exact division, operands 2-14
//	tier 3: any operator, operands 10-50 and 5-25
func Generate(rng Source, tier int) Question {
	var q Question
	switch {
	case tier <= 1:
		q = compose(between(rng, 1, 15), between(rng, 1, 15), OpAdd)
	case tier == 2:
		b := between(rng, 2, 14)
		n := between(rng, 2, 14)
		if rng.IntN(2) == 0 {
			q = compose(n, b, OpMul)
		} else {
			q = compose(n*b, b, OpDiv)
		}
	default:
		ops := [...]Op{OpAdd, OpSub, OpMul, OpDiv}
		op := ops[rng.IntN(len(ops))]
		a := between(rng, 10, 50)
		b := between(rng, 5, 25)
		if op == OpDiv {
			a *= b
		}
		q = compose(a, b, op)
	}

	q.Options = [3]int{
		q.answer,
		q.answer + between(rng, 1, 5),
		q.answer - between(rng, 1, 5),
	}
	for i := len(q.Options) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		q.Options[i], q.Options[j] = q.Options[j], q.Options[i]
	}
	return q
}

func compose(a, b int, op Op) Question {
	q := Question{A: a, B: b, Op: op, Text: fmt.Sprintf("%d %s %d", a, op, b)}
	switch op {
	case OpAdd:
		q.answer = a + b
	case OpSub:
		q.answer = a - b
	case OpMul:
		q.answer = a * b
	case OpDiv:
		q.answer = a / b
	}
	return q
}

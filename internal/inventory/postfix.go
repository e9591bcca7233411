// Package inventory evaluates single-digit postfix expressions used to total
// stock values.
package inventory

import (
	"unicode"

	"github.com/jwalitptl/patient-registry/pkg/errors"
)

// Evaluate scans expr once, left to right. Each ASCII digit is an operand,
// + - * / pop the right then the left operand, and whitespace only separates
// tokens. Division truncates toward zero.
func Evaluate(expr string) (int, error) {
	var stack operandStack

	for pos, ch := range expr {
		switch {
		case ch >= '0' && ch <= '9':
			stack.push(int(ch - '0'))
		case isOperator(ch):
			if stack.len() < 2 {
				return 0, errors.NewInsufficientOperands(ch, pos)
			}
			b := stack.pop()
			a := stack.pop()
			v, err := apply(ch, a, b, pos)
			if err != nil {
				return 0, err
			}
			stack.push(v)
		case unicode.IsSpace(ch):
			// separator
		default:
			return 0, errors.NewInvalidCharacter(ch, pos)
		}
	}

	if stack.len() != 1 {
		return 0, errors.NewMalformedExpression(stack.len())
	}
	return stack.pop(), nil
}

func isOperator(ch rune) bool {
	return ch == '+' || ch == '-' || ch == '*' || ch == '/'
}

func apply(op rune, a, b, pos int) (int, error) {
	switch op {
	case '+':
		return a + b, nil
	case '-':
		return a - b, nil
	case '*':
		return a * b, nil
	default:
		if b == 0 {
			return 0, errors.NewDivisionByZero(pos)
		}
		return a / b, nil
	}
}

type operandStack []int

func (s *operandStack) push(v int) {
	*s = append(*s, v)
}

func (s *operandStack) pop() int {
	v := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return v
}

func (s operandStack) len() int {
	return len(s)
}

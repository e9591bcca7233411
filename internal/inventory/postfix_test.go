package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-registry/pkg/errors"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want int
	}{
		{"sum of products", "23*54*+", 26},
		{"single digit", "9", 9},
		{"subtraction order", "52-", 3},
		{"negative result", "25-", -3},
		{"integer division", "72/", 3},
		{"division truncates toward zero", "07-2/", -3},
		{"whitespace separates", "2 3 * 5 4 * +", 26},
		{"zero", "0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		code errors.ErrorCode
	}{
		{"two operands left", "50", errors.ErrMalformedExpression},
		{"empty input", "", errors.ErrMalformedExpression},
		{"only whitespace", "   ", errors.ErrMalformedExpression},
		{"division by zero", "5 0/", errors.ErrDivisionByZero},
		{"operator on empty stack", "+", errors.ErrInsufficientOperands},
		{"operator with one operand", "3*", errors.ErrInsufficientOperands},
		{"unknown symbol", "23%", errors.ErrInvalidCharacter},
		{"letter", "2a+", errors.ErrInvalidCharacter},
		{"non ascii digit", "2٣+", errors.ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.expr)
			require.Error(t, err)
			code, ok := errors.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestEvaluateFailsFastOnFirstError(t *testing.T) {
	_, err := Evaluate("+x")
	assert.True(t, errors.HasCode(err, errors.ErrInsufficientOperands))

	_, err = Evaluate("x+")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidCharacter))
}

// Package billing computes treatment bills from a sparse polynomial in the
// number of treatment days.
package billing

import (
	"math"
	"sync"

	"github.com/jwalitptl/patient-registry/pkg/errors"
)

// Term is one coefficient * x^exponent summand.
type Term struct {
	Coefficient int `json:"coefficient" mapstructure:"coefficient"`
	Exponent    int `json:"exponent" mapstructure:"exponent" validate:"gte=0"`
}

// Polynomial keeps terms newest first. Like exponents are never merged, so a
// repeated exponent contributes once per insertion.
type Polynomial struct {
	mu    sync.Mutex
	terms []Term
}

func NewPolynomial(terms ...Term) (*Polynomial, error) {
	p := &Polynomial{}
	for _, t := range terms {
		if err := p.InsertTerm(t.Coefficient, t.Exponent); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Polynomial) InsertTerm(coefficient, exponent int) error {
	if exponent < 0 {
		return errors.NewInvalidExponent(exponent)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.terms = append([]Term{{Coefficient: coefficient, Exponent: exponent}}, p.terms...)
	return nil
}

// Evaluate returns the sum of coefficient * x^exponent over all terms.
// Arithmetic saturates: a term or running total that would overflow int is
// clamped to math.MaxInt or math.MinInt instead of wrapping.
func (p *Polynomial) Evaluate(x int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, t := range p.terms {
		total = addSat(total, mulSat(t.Coefficient, ipow(x, t.Exponent)))
	}
	return total
}

// Terms returns a copy of the terms, most recently inserted first.
func (p *Polynomial) Terms() []Term {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Term, len(p.terms))
	copy(out, p.terms)
	return out
}

func (p *Polynomial) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.terms)
}

func (p *Polynomial) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terms = nil
}

func ipow(base, exp int) int {
	result := 1
	for exp > 0 {
		if exp&1 == 1 {
			result = mulSat(result, base)
		}
		exp >>= 1
		if exp > 0 {
			base = mulSat(base, base)
		}
	}
	return result
}

func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	r := a * b
	overflow := r/b != a ||
		(a == -1 && b == math.MinInt) ||
		(b == -1 && a == math.MinInt)
	if !overflow {
		return r
	}
	if (a < 0) != (b < 0) {
		return math.MinInt
	}
	return math.MaxInt
}

func addSat(a, b int) int {
	r := a + b
	switch {
	case a > 0 && b > 0 && r < 0:
		return math.MaxInt
	case a < 0 && b < 0 && r >= 0:
		return math.MinInt
	}
	return r
}

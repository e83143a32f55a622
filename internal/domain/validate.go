package domain

import (
	"fmt"
	"math"
	"slices"
)

// Validate checks the product against the catalog data rules.
func (p Product) Validate() error {
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price < 0 {
		return fmt.Errorf("%w: product %d has price %v", ErrInvalidRecord, p.ID, p.Price)
	}
	return nil
}

// Validate checks that the question has at least two choices and that the
// answer is one of them.
func (q Question) Validate() error {
	if len(q.Choices) < 2 {
		return fmt.Errorf("%w: question %q has %d choices", ErrInvalidRecord, q.Question, len(q.Choices))
	}
	if !slices.Contains(q.Choices, q.Answer) {
		return fmt.Errorf("%w: question %q answer is not a choice", ErrInvalidRecord, q.Question)
	}
	return nil
}

package tax

import (
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// Unbounded is the upper bound of the top bracket.
var Unbounded = math.Inf(1)

// Bracket is one slice of a progressive schedule. The slice runs from the
// previous bracket's UpperBound (or 0) up to and including UpperBound.
type Bracket struct {
	UpperBound float64 `json:"upperBound" yaml:"upperBound"`
	Rate       float64 `json:"rate" yaml:"rate"`
}

// Unbounded reports whether the bracket has no upper limit.
func (b Bracket) Unbounded() bool {
	return math.IsInf(b.UpperBound, 1)
}

// ProgressiveTax applies each bracket's marginal rate to the part of amount
// falling inside it. Amounts at or below zero owe nothing.
func ProgressiveTax(amount float64, brackets []Bracket) float64 {
	tax := 0.0
	lower := 0.0
	for _, bracket := range brackets {
		if amount <= lower {
			break
		}
		slice := math.Min(amount, bracket.UpperBound) - lower
		if slice > 0 {
			tax += slice * bracket.Rate
		}
		lower = bracket.UpperBound
	}
	return tax
}

// validateBrackets checks that the schedule covers [0, +Inf) without gaps.
func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("at least one income tax bracket is required")
	}

	var errs error
	previous := 0.0
	for i, bracket := range brackets {
		if !validRate(bracket.Rate) {
			errs = multierr.Append(errs, fmt.Errorf("bracket %d: rate %v must be within [0, 1]", i, bracket.Rate))
		}
		if math.IsNaN(bracket.UpperBound) || bracket.UpperBound <= previous {
			errs = multierr.Append(errs, fmt.Errorf("bracket %d: upper bound %v must be greater than %v", i, bracket.UpperBound, previous))
			continue
		}
		last := i == len(brackets)-1
		if last && !bracket.Unbounded() {
			errs = multierr.Append(errs, fmt.Errorf("bracket %d: last bracket must be unbounded, got upper bound %v", i, bracket.UpperBound))
		}
		if !last && bracket.Unbounded() {
			errs = multierr.Append(errs, fmt.Errorf("bracket %d: only the last bracket may be unbounded", i))
		}
		previous = bracket.UpperBound
	}
	return errs
}

func validRate(rate float64) bool {
	return rate >= 0 && rate <= 1
}

// MarshalJSON encodes an unbounded upper limit as null, which JSON can
// represent where +Inf cannot.
func (b Bracket) MarshalJSON() ([]byte, error) {
	type bracket struct {
		UpperBound *float64 `json:"upperBound"`
		Rate       float64  `json:"rate"`
	}
	out := bracket{Rate: b.Rate}
	if !b.Unbounded() {
		out.UpperBound = &b.UpperBound
	}
	return json.Marshal(out)
}

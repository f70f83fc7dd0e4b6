// Package growth projects how regular monthly savings accumulate under
// compound interest.
package growth

import (
	"github.com/iwvelando/salary-compare/pkg/constants"
)

// YearBalance is the accumulated balance at the end of a completed year.
type YearBalance struct {
	Year    int     `json:"year" yaml:"year"`
	Balance float64 `json:"balance" yaml:"balance"`
}

// Projection is a growth series computed at one annual rate.
type Projection struct {
	AnnualRate float64       `json:"annualRate" yaml:"annualRate"`
	Points     []YearBalance `json:"points" yaml:"points"`
}

// Final returns the balance at the end of the projection, or zero when the
// projection is empty.
func (p Projection) Final() float64 {
	if len(p.Points) == 0 {
		return 0
	}
	return p.Points[len(p.Points)-1].Balance
}

// CompoundGrowth deposits monthlyContribution at the start of every month
// and compounds monthly at annualRate/12. One balance is emitted per
// completed year, so the result has exactly years entries.
func CompoundGrowth(monthlyContribution float64, years int, annualRate float64) []YearBalance {
	if years <= 0 {
		return []YearBalance{}
	}

	monthlyRate := annualRate / constants.MonthsPerYear
	points := make([]YearBalance, 0, years)
	balance := 0.0
	for year := 1; year <= years; year++ {
		for month := 0; month < constants.MonthsPerYear; month++ {
			balance = (balance + monthlyContribution) * (1 + monthlyRate)
		}
		points = append(points, YearBalance{Year: year, Balance: balance})
	}
	return points
}

// Project runs CompoundGrowth once per rate, in the order given.
func Project(monthlyContribution float64, years int, rates ...float64) []Projection {
	projections := make([]Projection, 0, len(rates))
	for _, rate := range rates {
		projections = append(projections, Projection{
			AnnualRate: rate,
			Points:     CompoundGrowth(monthlyContribution, years, rate),
		})
	}
	return projections
}

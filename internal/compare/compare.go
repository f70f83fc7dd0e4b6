// Package compare ranks jurisdictions by the net salary they leave and
// projects what the gap between the best and worst would accumulate to.
package compare

import (
	"fmt"

	"github.com/iwvelando/salary-compare/internal/config"
	"github.com/iwvelando/salary-compare/pkg/constants"
	"github.com/iwvelando/salary-compare/pkg/growth"
	"github.com/iwvelando/salary-compare/pkg/tax"
	"go.uber.org/zap"
)

// Report holds the per-jurisdiction breakdown of one gross salary and the
// comparison derived from it.
type Report struct {
	Jurisdictions        []Jurisdiction      `json:"jurisdictions" yaml:"jurisdictions"`
	GrossSalary          float64             `json:"grossSalary" yaml:"grossSalary"`
	Results              []tax.Result        `json:"results" yaml:"results"`
	Best                 tax.Result          `json:"best" yaml:"best"`
	Worst                tax.Result          `json:"worst" yaml:"worst"`
	NetDifferenceYearly  float64             `json:"netDifferenceYearly" yaml:"netDifferenceYearly"`
	NetDifferenceMonthly float64             `json:"netDifferenceMonthly" yaml:"netDifferenceMonthly"`
	Projections          []growth.Projection `json:"projections,omitempty" yaml:"projections,omitempty"`
}

// Jurisdiction names a compared jurisdiction and cites its rates.
type Jurisdiction struct {
	ID     tax.Jurisdiction `json:"id" yaml:"id"`
	Name   string           `json:"name,omitempty" yaml:"name,omitempty"`
	Source string           `json:"source,omitempty" yaml:"source,omitempty"`
}

// Comparator evaluates a fixed rule table.
type Comparator struct {
	logger     *zap.Logger
	table      tax.RuleTable
	projection config.ProjectionConfig
}

// NewComparator creates a comparator for table. The projection settings
// decide how the monthly net difference is compounded.
func NewComparator(logger *zap.Logger, table tax.RuleTable, projection config.ProjectionConfig) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{logger: logger, table: table, projection: projection}
}

// Compare computes every jurisdiction for grossSalary, picks the highest and
// lowest net salary and projects the monthly difference. Ties go to the
// jurisdiction listed first.
func (c *Comparator) Compare(grossSalary float64) (*Report, error) {
	results, err := tax.Compute(grossSalary, c.table)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no jurisdictions to compare")
	}

	best, worst := results[0], results[0]
	for _, result := range results[1:] {
		if result.NetSalary > best.NetSalary {
			best = result
		}
		if result.NetSalary < worst.NetSalary {
			worst = result
		}
	}

	report := &Report{
		Jurisdictions:        c.jurisdictions(),
		GrossSalary:          grossSalary,
		Results:              results,
		Best:                 best,
		Worst:                worst,
		NetDifferenceYearly:  best.NetSalary - worst.NetSalary,
		NetDifferenceMonthly: (best.NetSalary - worst.NetSalary) / constants.PaymentsPerYear,
	}

	if c.projection.Years > 0 && len(c.projection.Rates) > 0 {
		report.Projections = growth.Project(report.NetDifferenceMonthly, c.projection.Years, c.projection.Rates...)
	}

	c.logger.Debug("compared jurisdictions",
		zap.String("op", "compare.Compare"),
		zap.Float64("grossSalary", grossSalary),
		zap.String("best", string(best.CountryID)),
		zap.String("worst", string(worst.CountryID)),
		zap.Float64("netDifferenceYearly", report.NetDifferenceYearly),
		zap.Int("projections", len(report.Projections)),
	)

	return report, nil
}

func (c *Comparator) jurisdictions() []Jurisdiction {
	rules := c.table.Rules()
	jurisdictions := make([]Jurisdiction, 0, len(rules))
	for _, rule := range rules {
		jurisdictions = append(jurisdictions, Jurisdiction{ID: rule.ID, Name: rule.Name, Source: rule.Source})
	}
	return jurisdictions
}

// Name returns the display name of id, falling back to the id itself.
func (r *Report) Name(id tax.Jurisdiction) string {
	for _, j := range r.Jurisdictions {
		if j.ID == id && j.Name != "" {
			return j.Name
		}
	}
	return string(id)
}

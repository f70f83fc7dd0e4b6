package config

import (
	"fmt"

	"github.com/iwvelando/salary-compare/pkg/tax"
	"go.uber.org/multierr"
)

// JurisdictionConfig is the configured tax rule of one jurisdiction.
type JurisdictionConfig struct {
	ID                   string               `yaml:"id"`
	Name                 string               `yaml:"name,omitempty"`
	Source               string               `yaml:"source,omitempty"`
	SocialSecurity       SocialSecurityConfig `yaml:"socialSecurity"`
	Brackets             []BracketConfig      `yaml:"brackets"`
	Allowance            *AllowanceConfig     `yaml:"allowance,omitempty"`
	AllowanceApplication string               `yaml:"allowanceApplication,omitempty"`
}

// SocialSecurityConfig holds contribution rates. CapBase caps both sides;
// EmployeeCapBase and EmployerCapBase override it per side.
type SocialSecurityConfig struct {
	EmployeeRate    float64  `yaml:"employeeRate"`
	EmployerRate    float64  `yaml:"employerRate"`
	CapBase         *float64 `yaml:"capBase,omitempty"`
	EmployeeCapBase *float64 `yaml:"employeeCapBase,omitempty"`
	EmployerCapBase *float64 `yaml:"employerCapBase,omitempty"`
}

// BracketConfig is one tax bracket. A missing UpTo marks the top bracket.
type BracketConfig struct {
	UpTo *float64 `yaml:"upTo,omitempty"`
	Rate float64  `yaml:"rate"`
}

// AllowanceConfig holds either a fixed Amount or the three phase-out fields.
type AllowanceConfig struct {
	Amount        *float64 `yaml:"amount,omitempty"`
	FullAmount    *float64 `yaml:"fullAmount,omitempty"`
	PhaseOutStart *float64 `yaml:"phaseOutStart,omitempty"`
	PhaseOutEnd   *float64 `yaml:"phaseOutEnd,omitempty"`
}

// RuleTable converts every configured jurisdiction and validates the result.
// Conversion and validation failures are reported as *tax.ConfigurationError.
func (c *Configuration) RuleTable() (tax.RuleTable, error) {
	rules := make([]tax.Rule, 0, len(c.Jurisdictions))
	var errs error
	for _, jurisdiction := range c.Jurisdictions {
		rule, err := jurisdiction.ToRule()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rules = append(rules, rule)
	}
	if violations := multierr.Errors(errs); len(violations) == 1 {
		return tax.RuleTable{}, violations[0]
	} else if len(violations) > 1 {
		return tax.RuleTable{}, &tax.ConfigurationError{Err: errs}
	}
	return tax.NewRuleTable(rules...)
}

// ToRule converts the configuration into a tax.Rule. Only the shape of the
// configuration is checked here; tax.NewRuleTable enforces the invariants.
func (j JurisdictionConfig) ToRule() (tax.Rule, error) {
	id := tax.Jurisdiction(j.ID)

	application, err := tax.ParseAllowanceApplication(j.AllowanceApplication)
	if err != nil {
		return tax.Rule{}, &tax.ConfigurationError{Jurisdiction: id, Err: err}
	}

	allowance, err := j.Allowance.toAllowance()
	if err != nil {
		return tax.Rule{}, &tax.ConfigurationError{Jurisdiction: id, Err: err}
	}

	brackets := make([]tax.Bracket, 0, len(j.Brackets))
	for _, bracket := range j.Brackets {
		upperBound := tax.Unbounded
		if bracket.UpTo != nil {
			upperBound = *bracket.UpTo
		}
		brackets = append(brackets, tax.Bracket{UpperBound: upperBound, Rate: bracket.Rate})
	}

	return tax.Rule{
		ID:                   id,
		Name:                 j.Name,
		Source:               j.Source,
		SocialSecurity:       j.SocialSecurity.toSocialSecurity(),
		Brackets:             brackets,
		Allowance:            allowance,
		AllowanceApplication: application,
	}, nil
}

func (s SocialSecurityConfig) toSocialSecurity() tax.SocialSecurity {
	ss := tax.SocialSecurity{
		EmployeeRate: s.EmployeeRate,
		EmployerRate: s.EmployerRate,
	}
	ss.EmployeeCapBase = firstCap(s.EmployeeCapBase, s.CapBase)
	ss.EmployerCapBase = firstCap(s.EmployerCapBase, s.CapBase)
	return ss
}

func firstCap(caps ...*float64) *float64 {
	for _, c := range caps {
		if c != nil {
			return tax.CapBase(*c)
		}
	}
	return nil
}

func (a *AllowanceConfig) toAllowance() (tax.Allowance, error) {
	if a == nil {
		return nil, nil
	}

	phaseOutFields := 0
	for _, field := range []*float64{a.FullAmount, a.PhaseOutStart, a.PhaseOutEnd} {
		if field != nil {
			phaseOutFields++
		}
	}

	switch {
	case a.Amount != nil && phaseOutFields > 0:
		return nil, fmt.Errorf("allowance must set either amount or fullAmount/phaseOutStart/phaseOutEnd, not both")
	case a.Amount != nil:
		return tax.FixedAllowance{Amount: *a.Amount}, nil
	case phaseOutFields == 3:
		return tax.PhaseOutAllowance{
			FullAmount:    *a.FullAmount,
			PhaseOutStart: *a.PhaseOutStart,
			PhaseOutEnd:   *a.PhaseOutEnd,
		}, nil
	case phaseOutFields > 0:
		return nil, fmt.Errorf("phase-out allowance requires fullAmount, phaseOutStart and phaseOutEnd")
	default:
		return nil, nil
	}
}

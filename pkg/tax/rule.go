// Package tax evaluates per-jurisdiction income tax and social security
// rules against a gross annual salary.
package tax

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// Jurisdiction identifies a taxing country, e.g. "ES".
type Jurisdiction string

// SocialSecurity holds contribution rates and optional caps on the
// contribution base. A nil cap leaves that side uncapped.
type SocialSecurity struct {
	EmployeeRate    float64  `json:"employeeRate" yaml:"employeeRate"`
	EmployerRate    float64  `json:"employerRate" yaml:"employerRate"`
	EmployeeCapBase *float64 `json:"employeeCapBase,omitempty" yaml:"employeeCapBase,omitempty"`
	EmployerCapBase *float64 `json:"employerCapBase,omitempty" yaml:"employerCapBase,omitempty"`
}

// CapBase returns a pointer to v for use as a contribution cap.
func CapBase(v float64) *float64 {
	return &v
}

// Contributions returns the employee and employer contributions due on
// grossSalary.
func (ss SocialSecurity) Contributions(grossSalary float64) (employee, employer float64) {
	employee = contributionBase(grossSalary, ss.EmployeeCapBase) * ss.EmployeeRate
	employer = contributionBase(grossSalary, ss.EmployerCapBase) * ss.EmployerRate
	return employee, employer
}

func contributionBase(grossSalary float64, capBase *float64) float64 {
	if capBase == nil {
		return grossSalary
	}
	return math.Min(grossSalary, *capBase)
}

func (ss SocialSecurity) validate() error {
	var errs error
	if !validRate(ss.EmployeeRate) {
		errs = multierr.Append(errs, fmt.Errorf("employee social security rate %v must be within [0, 1]", ss.EmployeeRate))
	}
	if !validRate(ss.EmployerRate) {
		errs = multierr.Append(errs, fmt.Errorf("employer social security rate %v must be within [0, 1]", ss.EmployerRate))
	}
	if ss.EmployeeCapBase != nil && !(*ss.EmployeeCapBase > 0) {
		errs = multierr.Append(errs, fmt.Errorf("employee social security cap %v must be positive", *ss.EmployeeCapBase))
	}
	if ss.EmployerCapBase != nil && !(*ss.EmployerCapBase > 0) {
		errs = multierr.Append(errs, fmt.Errorf("employer social security cap %v must be positive", *ss.EmployerCapBase))
	}
	return errs
}

func (ss SocialSecurity) clone() SocialSecurity {
	c := ss
	if ss.EmployeeCapBase != nil {
		c.EmployeeCapBase = CapBase(*ss.EmployeeCapBase)
	}
	if ss.EmployerCapBase != nil {
		c.EmployerCapBase = CapBase(*ss.EmployerCapBase)
	}
	return c
}

// Rule is the complete tax configuration of one jurisdiction.
type Rule struct {
	ID                   Jurisdiction         `json:"id" yaml:"id"`
	Name                 string               `json:"name,omitempty" yaml:"name,omitempty"`
	Source               string               `json:"source,omitempty" yaml:"source,omitempty"`
	SocialSecurity       SocialSecurity       `json:"socialSecurity" yaml:"socialSecurity"`
	Brackets             []Bracket            `json:"brackets" yaml:"brackets"`
	Allowance            Allowance            `json:"allowance,omitempty" yaml:"allowance,omitempty"`
	AllowanceApplication AllowanceApplication `json:"allowanceApplication" yaml:"allowanceApplication"`
}

// Validate checks every invariant of the rule and reports all violations
// at once as a *ConfigurationError.
func (r Rule) Validate() error {
	var errs error
	if r.ID == "" {
		errs = multierr.Append(errs, fmt.Errorf("jurisdiction id is required"))
	}
	errs = multierr.Append(errs, r.SocialSecurity.validate())
	errs = multierr.Append(errs, validateBrackets(r.Brackets))
	if allowance, err := valueAllowance(r.Allowance); err != nil {
		errs = multierr.Append(errs, err)
	} else if allowance != nil {
		errs = multierr.Append(errs, allowance.Validate())
	}
	if _, ok := allowanceApplicationNames[r.AllowanceApplication]; !ok {
		errs = multierr.Append(errs, fmt.Errorf("unknown allowance application %d", int(r.AllowanceApplication)))
	}
	if errs != nil {
		return &ConfigurationError{Jurisdiction: r.ID, Err: errs}
	}
	return nil
}

func (r Rule) allowance(grossSalary float64) float64 {
	if r.Allowance == nil {
		return 0
	}
	return r.Allowance.Resolve(grossSalary)
}

func (r Rule) clone() Rule {
	c := r
	c.SocialSecurity = r.SocialSecurity.clone()
	c.Brackets = append([]Bracket(nil), r.Brackets...)
	// Only called on validated rules, where the conversion cannot fail.
	c.Allowance, _ = valueAllowance(r.Allowance)
	return c
}

// RuleTable is an ordered, validated and read-only set of rules. The zero
// value holds no rules; build tables with NewRuleTable.
type RuleTable struct {
	rules []Rule
}

// NewRuleTable validates rules and copies them into a table. Any violation
// fails the whole table with a *ConfigurationError.
func NewRuleTable(rules ...Rule) (RuleTable, error) {
	if len(rules) == 0 {
		return RuleTable{}, &ConfigurationError{Err: fmt.Errorf("at least one jurisdiction is required")}
	}

	var errs error
	seen := make(map[Jurisdiction]bool, len(rules))
	for _, rule := range rules {
		errs = multierr.Append(errs, rule.Validate())
		if rule.ID == "" {
			continue
		}
		if seen[rule.ID] {
			errs = multierr.Append(errs, &ConfigurationError{Jurisdiction: rule.ID, Err: fmt.Errorf("duplicate jurisdiction id")})
		}
		seen[rule.ID] = true
	}

	if violations := multierr.Errors(errs); len(violations) == 1 {
		return RuleTable{}, violations[0]
	} else if len(violations) > 1 {
		return RuleTable{}, &ConfigurationError{Err: errs}
	}

	table := RuleTable{rules: make([]Rule, len(rules))}
	for i, rule := range rules {
		table.rules[i] = rule.clone()
	}
	return table, nil
}

// Len returns the number of jurisdictions in the table.
func (t RuleTable) Len() int {
	return len(t.rules)
}

// Rules returns a copy of the rules in table order.
func (t RuleTable) Rules() []Rule {
	rules := make([]Rule, len(t.rules))
	for i, rule := range t.rules {
		rules[i] = rule.clone()
	}
	return rules
}

// Lookup returns the rule for id.
func (t RuleTable) Lookup(id Jurisdiction) (Rule, bool) {
	for _, rule := range t.rules {
		if rule.ID == id {
			return rule.clone(), true
		}
	}
	return Rule{}, false
}

package tax

import (
	"math"

	"github.com/iwvelando/salary-compare/pkg/constants"
)

// Result is the breakdown of one salary in one jurisdiction.
type Result struct {
	CountryID              Jurisdiction `json:"countryId" yaml:"countryId"`
	GrossSalary            float64      `json:"grossSalary" yaml:"grossSalary"`
	EmployeeSocialSecurity float64      `json:"employeeSocialSecurity" yaml:"employeeSocialSecurity"`
	EmployerSocialSecurity float64      `json:"employerSocialSecurity" yaml:"employerSocialSecurity"`
	IncomeTax              float64      `json:"incomeTax" yaml:"incomeTax"`
	NetSalary              float64      `json:"netSalary" yaml:"netSalary"`
	EmployerCost           float64      `json:"employerCost" yaml:"employerCost"`
	TotalTax               float64      `json:"totalTax" yaml:"totalTax"`
	EmployeeTax            float64      `json:"employeeTax" yaml:"employeeTax"`
	EmployerTax            float64      `json:"employerTax" yaml:"employerTax"`
}

// MonthlyNet is the net salary split across the yearly payments.
func (r Result) MonthlyNet() float64 {
	return r.NetSalary / constants.PaymentsPerYear
}

// ValidateSalary rejects gross salaries the engine cannot evaluate.
func ValidateSalary(grossSalary float64) error {
	switch {
	case math.IsNaN(grossSalary):
		return &ValidationError{Field: "gross salary", Value: grossSalary, Reason: "must be a number"}
	case math.IsInf(grossSalary, 0):
		return &ValidationError{Field: "gross salary", Value: grossSalary, Reason: "must be finite"}
	case grossSalary < 0:
		return &ValidationError{Field: "gross salary", Value: grossSalary, Reason: "must not be negative"}
	}
	return nil
}

// Compute evaluates grossSalary against every rule in the table, in table
// order. An invalid salary fails before any rule is evaluated.
func Compute(grossSalary float64, table RuleTable) ([]Result, error) {
	if err := ValidateSalary(grossSalary); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(table.rules))
	for _, rule := range table.rules {
		results = append(results, ComputeRule(grossSalary, rule))
	}
	return results, nil
}

// ComputeRule evaluates a single rule. The salary is assumed valid.
func ComputeRule(grossSalary float64, rule Rule) Result {
	employeeSS, employerSS := rule.SocialSecurity.Contributions(grossSalary)

	// Contributions are deductible before income tax.
	taxableIncome := grossSalary - employeeSS
	allowance := rule.allowance(grossSalary)

	var incomeTax float64
	switch rule.AllowanceApplication {
	case SubtractTaxOnAllowance:
		incomeTax = math.Max(0, ProgressiveTax(taxableIncome, rule.Brackets)-ProgressiveTax(allowance, rule.Brackets))
	default:
		incomeTax = ProgressiveTax(math.Max(0, taxableIncome-allowance), rule.Brackets)
	}

	return Result{
		CountryID:              rule.ID,
		GrossSalary:            grossSalary,
		EmployeeSocialSecurity: employeeSS,
		EmployerSocialSecurity: employerSS,
		IncomeTax:              incomeTax,
		NetSalary:              grossSalary - employeeSS - incomeTax,
		EmployerCost:           grossSalary + employerSS,
		TotalTax:               employeeSS + employerSS + incomeTax,
		EmployeeTax:            employeeSS + incomeTax,
		EmployerTax:            employerSS,
	}
}

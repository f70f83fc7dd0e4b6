package tax

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/multierr"
)

// Allowance is the income amount a jurisdiction exempts from income tax.
// FixedAllowance and PhaseOutAllowance are the only implementations.
type Allowance interface {
	// Resolve returns the allowance that applies at the given gross salary.
	Resolve(grossSalary float64) float64
	Validate() error
	isAllowance()
}

// FixedAllowance exempts the same amount at every salary.
type FixedAllowance struct {
	Amount float64 `json:"amount" yaml:"amount"`
}

// Resolve returns the fixed amount.
func (a FixedAllowance) Resolve(float64) float64 {
	return a.Amount
}

func (FixedAllowance) isAllowance() {}

// Validate checks the amount is a non-negative finite number.
func (a FixedAllowance) Validate() error {
	if !nonNegativeFinite(a.Amount) {
		return fmt.Errorf("allowance amount %v must be a non-negative finite number", a.Amount)
	}
	return nil
}

// PhaseOutAllowance exempts FullAmount up to PhaseOutStart, shrinks linearly
// to zero at PhaseOutEnd and stays at zero beyond it.
type PhaseOutAllowance struct {
	FullAmount    float64 `json:"fullAmount" yaml:"fullAmount"`
	PhaseOutStart float64 `json:"phaseOutStart" yaml:"phaseOutStart"`
	PhaseOutEnd   float64 `json:"phaseOutEnd" yaml:"phaseOutEnd"`
}

// Resolve interpolates the allowance for the given gross salary.
func (a PhaseOutAllowance) Resolve(grossSalary float64) float64 {
	switch {
	case grossSalary <= a.PhaseOutStart:
		return a.FullAmount
	case grossSalary >= a.PhaseOutEnd:
		return 0
	default:
		return a.FullAmount * (a.PhaseOutEnd - grossSalary) / (a.PhaseOutEnd - a.PhaseOutStart)
	}
}

func (PhaseOutAllowance) isAllowance() {}

// Validate checks the amounts and that the phase-out window is non-empty.
func (a PhaseOutAllowance) Validate() error {
	var errs error
	if !nonNegativeFinite(a.FullAmount) {
		errs = multierr.Append(errs, fmt.Errorf("allowance full amount %v must be a non-negative finite number", a.FullAmount))
	}
	if !nonNegativeFinite(a.PhaseOutStart) || !nonNegativeFinite(a.PhaseOutEnd) {
		errs = multierr.Append(errs, fmt.Errorf("allowance phase-out bounds %v..%v must be non-negative finite numbers", a.PhaseOutStart, a.PhaseOutEnd))
	} else if a.PhaseOutStart >= a.PhaseOutEnd {
		errs = multierr.Append(errs, fmt.Errorf("allowance phase-out start %v must be below end %v", a.PhaseOutStart, a.PhaseOutEnd))
	}
	return errs
}

// valueAllowance returns a copy of a that shares no memory with the caller.
// Pointer variants are dereferenced; nil pointers and foreign
// implementations are rejected.
func valueAllowance(a Allowance) (Allowance, error) {
	switch v := a.(type) {
	case nil:
		return nil, nil
	case FixedAllowance:
		return v, nil
	case PhaseOutAllowance:
		return v, nil
	case *FixedAllowance:
		if v == nil {
			return nil, fmt.Errorf("allowance is a nil *FixedAllowance")
		}
		return *v, nil
	case *PhaseOutAllowance:
		if v == nil {
			return nil, fmt.Errorf("allowance is a nil *PhaseOutAllowance")
		}
		return *v, nil
	default:
		return nil, fmt.Errorf("unsupported allowance type %T", a)
	}
}

// AllowanceApplication selects how the allowance reduces income tax.
type AllowanceApplication int

const (
	// SubtractFromBase removes the allowance from the taxable base before
	// the brackets are applied.
	SubtractFromBase AllowanceApplication = iota
	// SubtractTaxOnAllowance taxes the full base, then credits the tax the
	// brackets would charge on the allowance alone.
	SubtractTaxOnAllowance
)

var allowanceApplicationNames = map[AllowanceApplication]string{
	SubtractFromBase:       "SUBTRACT_FROM_BASE",
	SubtractTaxOnAllowance: "SUBTRACT_TAX_ON_ALLOWANCE",
}

func (a AllowanceApplication) String() string {
	if name, ok := allowanceApplicationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AllowanceApplication(%d)", int(a))
}

// MarshalText encodes the application by name.
func (a AllowanceApplication) MarshalText() ([]byte, error) {
	if _, ok := allowanceApplicationNames[a]; !ok {
		return nil, fmt.Errorf("unknown allowance application %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes an application name, see ParseAllowanceApplication.
func (a *AllowanceApplication) UnmarshalText(text []byte) error {
	parsed, err := ParseAllowanceApplication(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAllowanceApplication maps a name such as "SUBTRACT_FROM_BASE" to its
// value. Matching ignores case and surrounding whitespace; an empty name
// selects SubtractFromBase.
func ParseAllowanceApplication(name string) (AllowanceApplication, error) {
	normalized := strings.ToUpper(strings.TrimSpace(name))
	if normalized == "" {
		return SubtractFromBase, nil
	}
	for application, candidate := range allowanceApplicationNames {
		if candidate == normalized {
			return application, nil
		}
	}
	return 0, fmt.Errorf("unknown allowance application %q", name)
}

func nonNegativeFinite(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

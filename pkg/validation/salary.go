package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/salary-compare/pkg/mathutil"
)

// ValidateSalaryRange checks that a user supplied gross salary lies within
// the selectable range. This is an input restriction on top of the tax
// engine, which accepts any non-negative finite salary.
func ValidateSalaryRange(gross, min, max float64) error {
	if !mathutil.IsFinite(gross) {
		return fmt.Errorf("salary %v is not a finite number", gross)
	}
	if gross < min || gross > max {
		return fmt.Errorf("salary %.2f is outside the range %.2f-%.2f", gross, min, max)
	}
	return nil
}

// ClampSalary pulls gross into [min, max] and snaps it to the nearest step
// above min. A non-finite gross becomes min. A step of zero or less
// disables snapping.
func ClampSalary(gross, min, max, step float64) float64 {
	if math.IsNaN(gross) {
		return min
	}
	clamped := mathutil.Clamp(gross, min, max)
	if step <= 0 {
		return clamped
	}
	snapped := min + math.Round((clamped-min)/step)*step
	return mathutil.Min(snapped, max)
}

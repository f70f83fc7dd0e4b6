package tax

import (
	"fmt"
)

// ValidationError reports a gross salary the engine refuses to evaluate.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// ConfigurationError reports a rule table that violates its invariants.
// Jurisdiction is empty when the error spans several rules or the table
// as a whole.
type ConfigurationError struct {
	Jurisdiction Jurisdiction
	Err          error
}

func (e *ConfigurationError) Error() string {
	if e.Jurisdiction == "" {
		return fmt.Sprintf("invalid tax rule table: %v", e.Err)
	}
	return fmt.Sprintf("invalid tax rule %s: %v", e.Jurisdiction, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

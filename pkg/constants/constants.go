// Package constants provides shared constants for the salary-compare application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PaymentsPerYear is the number of salary payments the monthly net is split into
	PaymentsPerYear = 12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatYAML is the YAML output format
	OutputFormatYAML = "yaml"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "SALARY_COMPARE"
)

// Salary input defaults. These bound the interactive input only; the tax
// engine accepts any non-negative finite salary.
const (
	// DefaultSalary is the gross salary used when none is given
	DefaultSalary = 35000.0

	// DefaultSalaryMin is the lowest selectable gross salary
	DefaultSalaryMin = 15000.0

	// DefaultSalaryMax is the highest selectable gross salary
	DefaultSalaryMax = 150000.0

	// DefaultSalaryStep is the increment between selectable salaries
	DefaultSalaryStep = 1000.0
)

// DefaultSalaryPresets are the quick-pick salaries offered alongside the range.
var DefaultSalaryPresets = []float64{20000, 30000, 50000, 75000, 100000}

// Projection defaults
const (
	// DefaultProjectionYears is the horizon of the savings projection
	DefaultProjectionYears = 20
)

// DefaultProjectionRates are the annual returns the savings projection is run at.
var DefaultProjectionRates = []float64{0.05, 0.02}

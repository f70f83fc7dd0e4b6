// Package config defines the data structures related to configuration and
// includes functions for loading the config and turning it into tax rules.
package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/iwvelando/salary-compare/pkg/constants"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfig []byte

// Configuration holds all configuration for salary-compare.
type Configuration struct {
	Logging       LoggingConfig        `yaml:"logging,omitempty"`
	Output        OutputConfig         `yaml:"output,omitempty"`
	Salary        SalaryConfig         `yaml:"salary,omitempty"`
	Projection    ProjectionConfig     `yaml:"projection,omitempty"`
	Jurisdictions []JurisdictionConfig `yaml:"jurisdictions,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, yaml
}

// SalaryConfig bounds the gross salaries offered to the user. The tax engine
// itself is not limited by these values.
type SalaryConfig struct {
	Default float64   `yaml:"default,omitempty"`
	Min     float64   `yaml:"min,omitempty"`
	Max     float64   `yaml:"max,omitempty"`
	Step    float64   `yaml:"step,omitempty"`
	Presets []float64 `yaml:"presets,omitempty"`
}

// ProjectionConfig controls the savings projection of the net difference.
type ProjectionConfig struct {
	Years int       `yaml:"years,omitempty"`
	Rates []float64 `yaml:"rates,omitempty"`
}

// LoadConfiguration loads the YAML file at configPath on top of the embedded
// defaults. An empty configPath yields the defaults. Any key can be
// overridden from the environment, e.g. SALARY_COMPARE_LOGGING_LEVEL.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	err := v.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// setDefaults registers every top-level key of the embedded defaults so a
// config file only has to name what it changes. A configured jurisdictions
// list replaces the default one as a whole.
func setDefaults(v *viper.Viper) error {
	var defaults map[string]interface{}
	if err := yaml.Unmarshal(defaultConfig, &defaults); err != nil {
		return fmt.Errorf("error reading default config, %s", err)
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return nil
}

// DefaultConfiguration returns the embedded reference configuration.
func DefaultConfiguration() (*Configuration, error) {
	return LoadConfiguration("")
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	s := c.Salary
	if s.Min < 0 {
		warnings = append(warnings, fmt.Sprintf("salary minimum %.2f is negative", s.Min))
	}
	if s.Min >= s.Max {
		warnings = append(warnings, fmt.Sprintf("salary range is empty (%.2f >= %.2f)", s.Min, s.Max))
	} else {
		if s.Default < s.Min || s.Default > s.Max {
			warnings = append(warnings, fmt.Sprintf("default salary %.2f is outside the range %.2f-%.2f", s.Default, s.Min, s.Max))
		}
		for _, preset := range s.Presets {
			if preset < s.Min || preset > s.Max {
				warnings = append(warnings, fmt.Sprintf("salary preset %.2f is outside the range %.2f-%.2f", preset, s.Min, s.Max))
			}
		}
	}
	if s.Step <= 0 {
		warnings = append(warnings, fmt.Sprintf("salary step %.2f must be positive", s.Step))
	}

	if c.Projection.Years <= 0 {
		warnings = append(warnings, fmt.Sprintf("projection years %d must be positive; no projection will be produced", c.Projection.Years))
	}
	if len(c.Projection.Rates) == 0 {
		warnings = append(warnings, "no projection rates configured; no projection will be produced")
	}
	for _, rate := range c.Projection.Rates {
		if rate < 0 {
			warnings = append(warnings, fmt.Sprintf("projection rate %.4f is negative", rate))
		}
	}

	for _, jurisdiction := range c.Jurisdictions {
		if jurisdiction.Name == "" {
			warnings = append(warnings, fmt.Sprintf("jurisdiction '%s' has no display name", jurisdiction.ID))
		}
		if jurisdiction.Source == "" {
			warnings = append(warnings, fmt.Sprintf("jurisdiction '%s' cites no source", jurisdiction.ID))
		}
	}

	return warnings
}

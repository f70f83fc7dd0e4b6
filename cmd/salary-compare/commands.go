package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/salary-compare/internal/compare"
	"github.com/iwvelando/salary-compare/internal/config"
	"github.com/iwvelando/salary-compare/pkg/constants"
	"github.com/iwvelando/salary-compare/pkg/growth"
	"github.com/iwvelando/salary-compare/pkg/output"
	"github.com/iwvelando/salary-compare/pkg/tax"
	"github.com/iwvelando/salary-compare/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app is the state shared by every subcommand once the configuration is
// loaded.
type app struct {
	configLocation string
	logLevel       string
	outputFormat   string

	conf   *config.Configuration
	logger *zap.Logger
	table  tax.RuleTable
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "salary-compare",
		Short: "Compare take-home pay across tax jurisdictions",
		Long: `salary-compare computes income tax and social security for a gross
salary in every configured jurisdiction, ranks them by net salary and
projects what the monthly difference would grow to if saved.

Examples:
  salary-compare compute 45000
  salary-compare compute --presets --output-format csv
  salary-compare project 500 --years 10 --rate 0.04
  salary-compare rules --config ./config.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Flags().Changed("config"))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv, json, yaml")

	rootCmd.AddCommand(newComputeCmd(a))
	rootCmd.AddCommand(newProjectCmd(a))
	rootCmd.AddCommand(newRulesCmd(a))

	return rootCmd
}

// load reads the configuration, builds the logger and the rule table. The
// default config file is optional; an explicitly named one is not.
func (a *app) load(explicitConfig bool) error {
	location := a.configLocation
	if !explicitConfig {
		if _, err := os.Stat(location); errors.Is(err, os.ErrNotExist) {
			location = ""
		}
	}

	conf, err := config.LoadConfiguration(location)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configLocation, err)
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	// Determine output format (CLI override takes precedence over config)
	if a.outputFormat == "" {
		a.outputFormat = conf.Output.Format
	}
	if a.outputFormat == "" {
		a.outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.outputFormat); err != nil {
		a.logger.Error("invalid output format",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	table, err := conf.RuleTable()
	if err != nil {
		a.logger.Error("invalid tax rule configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}
	a.table = table

	a.logger.Debug("configuration loaded",
		zap.String("op", "main"),
		zap.String("config", location),
		zap.Int("jurisdictions", table.Len()),
		zap.String("outputFormat", a.outputFormat),
	)
	return nil
}

func newComputeCmd(a *app) *cobra.Command {
	var presets, clamp bool

	cmd := &cobra.Command{
		Use:   "compute [flags] [--] [salary]",
		Short: "Compare the tax breakdown of a gross annual salary",
		Long: `Compute income tax and social security for a gross annual salary in
every configured jurisdiction. Without an argument the configured default
salary is used; --presets compares every configured preset instead.
A negative salary must follow "--", e.g. "compute -- -5".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salaries := []float64{a.conf.Salary.Default}
			if a.conf.Salary.Default <= 0 {
				salaries = []float64{constants.DefaultSalary}
			}
			switch {
			case len(args) == 1 && presets:
				return fmt.Errorf("a salary and --presets cannot be combined")
			case len(args) == 1:
				salary, err := parseAmount("salary", args[0])
				if err != nil {
					return err
				}
				salaries = []float64{salary}
			case presets:
				salaries = a.conf.Salary.Presets
				if len(salaries) == 0 {
					salaries = constants.DefaultSalaryPresets
				}
			}

			comparator := compare.NewComparator(a.logger, a.table, a.conf.Projection)
			for i, salary := range salaries {
				salary = a.checkRange(salary, clamp)

				report, err := comparator.Compare(salary)
				if err != nil {
					return fmt.Errorf("failed to compare salary %.2f: %w", salary, err)
				}

				if i > 0 && a.outputFormat == constants.OutputFormatPretty {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := output.Write(cmd.OutOrStdout(), a.outputFormat, report); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(amountFlagError("salary"))
	cmd.Flags().BoolVar(&presets, "presets", false, "compare every configured salary preset")
	cmd.Flags().BoolVar(&clamp, "clamp", false, "snap the salary into the configured range and step")
	return cmd
}

// checkRange warns about salaries outside the configured range, or snaps
// them into it when clamp is set. The engine accepts any salary either way.
func (a *app) checkRange(salary float64, clamp bool) float64 {
	s := a.conf.Salary
	if clamp {
		return validation.ClampSalary(salary, s.Min, s.Max, s.Step)
	}
	if err := validation.ValidateSalaryRange(salary, s.Min, s.Max); err != nil {
		a.logger.Warn("salary outside the configured range",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	return salary
}

func newProjectCmd(a *app) *cobra.Command {
	var years int
	var rates []float64

	cmd := &cobra.Command{
		Use:   "project [flags] [--] <monthly>",
		Short: "Project monthly savings with compound growth",
		Long: `Project a monthly contribution compounded monthly at each annual rate,
printing the balance at the end of every year. A negative contribution must
follow "--".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			monthly, err := parseAmount("monthly contribution", args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("years") {
				years = a.conf.Projection.Years
			}
			if !cmd.Flags().Changed("rate") {
				rates = a.conf.Projection.Rates
			}
			if years <= 0 {
				return fmt.Errorf("years must be positive, got %d", years)
			}
			if len(rates) == 0 {
				return fmt.Errorf("at least one rate is required")
			}

			projections := growth.Project(monthly, years, rates...)
			a.logger.Debug("projected savings",
				zap.String("op", "main"),
				zap.Float64("monthly", monthly),
				zap.Int("years", years),
				zap.Float64s("rates", rates),
			)
			return output.WriteProjections(cmd.OutOrStdout(), a.outputFormat, projections)
		},
	}

	cmd.SetFlagErrorFunc(amountFlagError("monthly contribution"))
	cmd.Flags().IntVar(&years, "years", constants.DefaultProjectionYears, "number of years to project (default from config)")
	cmd.Flags().Float64SliceVar(&rates, "rate", constants.DefaultProjectionRates, "annual rate, repeatable (default from config)")
	return cmd
}

func newRulesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Show the configured tax rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return output.WriteRules(cmd.OutOrStdout(), a.outputFormat, a.table.Rules())
		},
	}
}

func parseAmount(name, value string) (float64, error) {
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	if err := tax.ValidateSalary(amount); err != nil {
		var validationErr *tax.ValidationError
		if errors.As(err, &validationErr) {
			validationErr.Field = name
		}
		return 0, err
	}
	return amount, nil
}

// amountFlagError reports a negative amount such as "-5", which the flag
// parser mistakes for a shorthand flag, as an invalid amount instead.
func amountFlagError(name string) func(*cobra.Command, error) error {
	return func(cmd *cobra.Command, err error) error {
		msg := err.Error()
		if !strings.HasPrefix(msg, "unknown shorthand flag") {
			return err
		}
		i := strings.LastIndex(msg, " in -")
		if i < 0 {
			return err
		}
		value := msg[i+len(" in "):]
		if _, parseErr := strconv.ParseFloat(value, 64); parseErr != nil {
			return err
		}
		_, amountErr := parseAmount(name, value)
		return amountErr
	}
}
